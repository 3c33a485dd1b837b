package eventuals

import (
	"io"

	"github.com/rs/zerolog"
)

// Log is the package-level logger used for per-signal tracing (stream
// Next/Done, lock Acquire/Release, scheduler Submit/Reschedule) and
// lifecycle boundaries (pipeline start, terminal Start/Fail/Stop,
// interrupt trigger, preemption, thread pool close). It discards everything by default, the way a
// library must not write to stdout/stderr until a caller opts in; set
// it with SetLogger.
var Log zerolog.Logger = zerolog.New(io.Discard)

// SetLogger replaces the package-level logger, for example with
// zerolog.New(os.Stderr).With().Timestamp().Logger() during debugging.
func SetLogger(logger zerolog.Logger) {
	Log = logger
}
