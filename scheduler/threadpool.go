package scheduler

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/fluxgraph/eventuals"
	"github.com/puzpuzpuz/xsync/v3"
)

// StaticThreadPool runs submitted work across a fixed set of worker
// goroutines, one per CPU core by default, the concurrent counterpart to
// the default inline Scheduler. Where the original implementation hands
// a hand-rolled atomic MPMC queue to each worker, this one uses a
// buffered channel per core: channels already give the FIFO MPMC
// semantics the source built by hand, so reimplementing that queue
// would just be rederiving what Go's runtime already provides.
type StaticThreadPool struct {
	cores   []chan func(ctx context.Context)
	next    atomic.Uint64
	wg      sync.WaitGroup
	closed  chan struct{}
	closeMu sync.Mutex

	// contexts tracks which core every live Context was last scheduled
	// on, so Preempt/Reschedule can report where a task is running
	// without taking a lock on a shared map.
	contexts *xsync.MapOf[string, int]
}

// NewStaticThreadPool starts a pool with one worker goroutine per core,
// or cores workers if cores > 0.
func NewStaticThreadPool(cores int) *StaticThreadPool {
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	p := &StaticThreadPool{
		cores:    make([]chan func(ctx context.Context), cores),
		closed:   make(chan struct{}),
		contexts: xsync.NewMapOf[string, int](),
	}
	for i := range p.cores {
		p.cores[i] = make(chan func(ctx context.Context), 256)
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *StaticThreadPool) worker(core int) {
	defer p.wg.Done()
	for {
		select {
		case fn, ok := <-p.cores[core]:
			if !ok {
				return
			}
			fn(context.Background())
		case <-p.closed:
			return
		}
	}
}

// Name implements Scheduler.
func (p *StaticThreadPool) Name() string { return "static-thread-pool" }

// Submit queues fn onto one of the pool's cores, chosen round-robin.
// Submit implements Scheduler.
func (p *StaticThreadPool) Submit(ctx context.Context, fn func(ctx context.Context)) {
	core := int(p.next.Add(1)) % len(p.cores)
	if sched, schedCtx := Current(ctx); sched != nil && schedCtx != nil {
		if prev, ok := p.CoreFor(schedCtx); ok && prev != core {
			eventuals.Log.Debug().Str("context", schedCtx.Name).Int("from_core", prev).Int("to_core", core).
				Msg("scheduler: submit moved context to a new core")
		}
		p.contexts.Store(schedCtx.Name, core)
	}
	eventuals.Log.Debug().Int("core", core).Msg("scheduler: submit")
	select {
	case p.cores[core] <- func(context.Context) { fn(ctx) }:
	case <-p.closed:
	}
}

// RunInline runs fn immediately on the calling goroutine instead of
// queueing it onto a worker, bypassing the channel intake entirely. This
// is the Go counterpart of the original StaticThreadPool's documented
// defer=false fast path: an explicit, opt-in optimization for callers
// that already know they're on an acceptable goroutine to run on, not a
// silent default.
func (p *StaticThreadPool) RunInline(ctx context.Context, fn func(ctx context.Context)) {
	fn(ctx)
}

// CoreFor reports which core schedCtx was last scheduled on, and
// whether it has been scheduled at all yet.
func (p *StaticThreadPool) CoreFor(schedCtx *Context) (int, bool) {
	return p.contexts.Load(schedCtx.Name)
}

// Close stops every worker goroutine and waits for them to exit. Work
// still queued when Close runs may be dropped without running. Calling
// Close again after the first call is a no-op.
func (p *StaticThreadPool) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	select {
	case <-p.closed:
		return
	default:
		close(p.closed)
	}
	p.wg.Wait()
	eventuals.Log.Info().Int("cores", len(p.cores)).Msg("scheduler: static thread pool closed")
}
