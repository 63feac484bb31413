package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/morezero/authors-service/pkg/auth"
	"github.com/morezero/authors-service/pkg/protocol"
	"github.com/morezero/authors-service/pkg/wire"
)

const wsLogPrefix = "server:ws"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin policy is the gateway's job; the service accepts any.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and serves the package-routing protocol
// over it. The wire format is chosen once per connection from the `format`
// query parameter and the user identity is fixed at upgrade time. Requests
// on a connection are dispatched sequentially, one response frame each.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	strategy := wire.SelectStrategy(r.URL.Query().Get("format"))
	user := userFromRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - upgrade failed: %v", wsLogPrefix, err))
		return
	}
	defer conn.Close()

	username := "anonymous"
	if user != nil {
		username = user.Username
	}
	slog.Info(fmt.Sprintf("%s - connection open format=%s user=%s", wsLogPrefix, strategy.FormatName(), username))

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn(fmt.Sprintf("%s - read error: %v", wsLogPrefix, err))
			}
			return
		}

		req, err := decodeFrame(strategy, msgType, payload)
		if err != nil {
			// A malformed frame means the client speaks the wrong format;
			// there is no req_id to echo, so close the connection.
			slog.Warn(fmt.Sprintf("%s - dropping connection, bad frame: %v", wsLogPrefix, err))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "bad frame"))
			return
		}

		reqCtx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		reqCtx = auth.WithUser(reqCtx, user)
		resp := s.router.HandleRequest(reqCtx, user, req)
		cancel()

		if err := writeFrame(conn, strategy, resp); err != nil {
			slog.Error(fmt.Sprintf("%s - write failed: %v", wsLogPrefix, err))
			return
		}
	}
}

// decodeFrame turns a WebSocket frame into a request using the connection's
// format strategy. JSON rides on text frames as an envelope object, protobuf
// on binary frames.
func decodeFrame(strategy wire.FormatStrategy, msgType int, payload []byte) (*protocol.Request, error) {
	switch strategy.FormatName() {
	case wire.FormatProtobuf:
		if msgType != websocket.BinaryMessage {
			return nil, fmt.Errorf("%s - protobuf connection got message type %d", wsLogPrefix, msgType)
		}
		return strategy.Deserialize(payload)
	default:
		if msgType != websocket.TextMessage {
			return nil, fmt.Errorf("%s - json connection got message type %d", wsLogPrefix, msgType)
		}
		var envelope map[string]interface{}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("%s - invalid json frame: %w", wsLogPrefix, err)
		}
		return strategy.Deserialize(envelope)
	}
}

// writeFrame serializes a response with the connection's strategy and writes
// it as a single frame.
func writeFrame(conn *websocket.Conn, strategy wire.FormatStrategy, resp *protocol.Response) error {
	out, err := strategy.Serialize(resp)
	if err != nil {
		return fmt.Errorf("%s - serialize: %w", wsLogPrefix, err)
	}
	switch frame := out.(type) {
	case []byte:
		return conn.WriteMessage(websocket.BinaryMessage, frame)
	default:
		data, err := json.Marshal(frame)
		if err != nil {
			return fmt.Errorf("%s - encode: %w", wsLogPrefix, err)
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}
}
