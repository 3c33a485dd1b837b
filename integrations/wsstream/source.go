// Package wsstream adapts a gorilla/websocket connection's inbound
// message stream into a stream.Source, the concrete demonstration of
// the event-source integration boundary: an external collaborator
// (here, a browser or service on the other end of a websocket) feeds
// values into a pipeline the same way any other stream source does,
// without the pipeline's stages knowing or caring that the values
// originated off-process.
//
// Grounded on the teacher's stages/websocket_sink.go, rehomed from a
// Stage-shaped sink (events out, over the wire) into a stream source
// (bytes in, from the wire).
package wsstream

import (
	"context"
	"fmt"

	"github.com/fluxgraph/eventuals"
	"github.com/fluxgraph/eventuals/stream"
	"github.com/gorilla/websocket"
)

// Message is one inbound websocket frame.
type Message struct {
	Type byte // websocket.TextMessage or websocket.BinaryMessage
	Data []byte
}

// Source streams every inbound message from conn until the connection
// is closed or read fails, at which point the stream ends (a close
// initiated by the peer) or fails (any other read error).
func Source(conn *websocket.Conn) stream.Source[eventuals.Unit, Message] {
	return stream.FromFunc(func() func(ctx context.Context) (Message, bool, error) {
		return func(_ context.Context) (Message, bool, error) {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseNoStatusReceived,
				) {
					return Message{}, false, nil
				}
				return Message{}, false, fmt.Errorf("wsstream: read message: %w", err)
			}
			return Message{Type: byte(messageType), Data: data}, true, nil
		}
	})
}

// Sink drains a stream of outbound messages to conn, writing each one
// in turn and resolving once the stream ends.
func Sink(conn *websocket.Conn) stream.Sink[Message, eventuals.Unit] {
	return stream.Loop(func(_ context.Context, msg Message) error {
		if err := conn.WriteMessage(int(msg.Type), msg.Data); err != nil {
			return fmt.Errorf("wsstream: write message: %w", err)
		}
		return nil
	})
}
