package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
)

// Transport is the socket surface a Conn drives.
type Transport interface {
	// Read blocks for the next inbound frame.
	Read(ctx context.Context) ([]byte, error)
	// Write sends one text frame.
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Dialer opens a Transport to url.
type Dialer func(ctx context.Context, url string) (Transport, error)

const writeWait = 10 * time.Second

// WebSocketDialer dials url with coder/websocket.
func WebSocketDialer(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	// Frames are newline-joined batches; leave room beyond the server's per-message limit.
	conn.SetReadLimit(1 << 20)
	return &wsTransport{conn: conn}, nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Read(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	return data, err
}

func (t *wsTransport) Write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return t.conn.Write(ctx, websocket.MessageText, data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "bye")
}
