package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/proto"
	"github.com/vovakirdan/wirechat-client/internal/utils"
)

const (
	// Max wait time when writing a frame to the peer.
	writeWait = 10 * time.Second
	// Ping interval; a pong must come back within writeWait.
	pingPeriod = 54 * time.Second
)

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub            *core.Hub
	log            *zerolog.Logger
	accept         *websocket.AcceptOptions
	maxMessageSize int64
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg config.ServerConfig, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:            hub,
		log:            logger,
		accept:         acceptOptions(cfg.AllowedOrigin, logger),
		maxMessageSize: cfg.MaxMessageSize,
	}
}

// acceptOptions limits upgrades to the configured origin. Without one any origin is accepted.
func acceptOptions(allowedOrigin string, logger *zerolog.Logger) *websocket.AcceptOptions {
	if allowedOrigin == "" {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	u, err := url.Parse(allowedOrigin)
	if err != nil || u.Host == "" {
		logger.Warn().Str("allowed_origin", allowedOrigin).Msg("allowed origin is not a URL, using it as a host pattern")
		return &websocket.AcceptOptions{OriginPatterns: []string{allowedOrigin}}
	}
	return &websocket.AcceptOptions{OriginPatterns: []string{u.Host}}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}

	client := core.NewClient(utils.NewID())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)
	h.log.Debug().Str("client_id", client.ID).Str("remote", r.RemoteAddr).Msg("client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop forwards every frame from the client to the hub verbatim.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ws frame")
			return err
		}
		h.hub.Broadcast(data)
	}
}

// writeLoop drains the client's queue. Everything queued at the time of a
// write goes out as one frame, newline separated.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.Send:
			if !ok {
				// The hub dropped us.
				return nil
			}
			batch := drainQueued(client.Send, [][]byte{frame})

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, proto.JoinFrames(batch))
			cancel()
			if err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws frame")
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drainQueued appends whatever is already waiting in queue without blocking.
func drainQueued(queue <-chan []byte, batch [][]byte) [][]byte {
	for n := len(queue); n > 0; n-- {
		frame, ok := <-queue
		if !ok {
			break
		}
		batch = append(batch, frame)
	}
	return batch
}
