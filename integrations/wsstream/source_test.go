package wsstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fluxgraph/eventuals"
	"github.com/fluxgraph/eventuals/integrations/wsstream"
	"github.com/fluxgraph/eventuals/stream"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestSourceStreamsInboundMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		for _, msg := range []string{"one", "two", "three"} {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
		}
		require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
		conn.Close()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	pipeline := stream.PipeSink(
		wsstream.Source(conn),
		stream.PipeSinkAdapter(
			stream.Map(func(_ context.Context, msg wsstream.Message) (string, error) {
				return string(msg.Data), nil
			}),
			stream.Collect[string](),
		),
	)

	out, err := eventuals.Run(context.Background(), pipeline, eventuals.Unit{})
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, out)
}
