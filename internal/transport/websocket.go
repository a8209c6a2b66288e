package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"nhooyr.io/websocket"
)

// DialWebsocket opens the server connection with the bearer token in the
// handshake headers.
func DialWebsocket(ctx context.Context, socketURL, token string) (Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	c, _, err := websocket.Dial(ctx, socketURL, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return nil, err
	}
	// Inbound frames are small; the default 32KiB read limit fits chat
	// payloads with room to spare.
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) ReadEnvelope(ctx context.Context) (Envelope, error) {
	_, data, err := w.c.Read(ctx)
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, ErrBadFrame
	}
	return env, nil
}

func (w *wsConn) WriteEnvelope(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return w.c.Write(ctx, websocket.MessageText, data)
}

func (w *wsConn) Close() error {
	return w.c.Close(websocket.StatusNormalClosure, "client disconnect")
}
