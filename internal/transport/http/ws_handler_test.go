package http

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/proto"
)

func startTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return ts
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MaxMessageSize:    10000,
	}
}

func dial(ctx context.Context, t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, testConfig())

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestWebSocketBroadcastEchoesToSender(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A client's own echo proves the hub registered it.
	connA := dial(ctx, t, ts)
	send(ctx, t, connA, "warmup-a")
	expect(ctx, t, connA, "warmup-a")

	connB := dial(ctx, t, ts)
	send(ctx, t, connB, "warmup-b")
	expect(ctx, t, connB, "warmup-b")
	expect(ctx, t, connA, "warmup-b")

	send(ctx, t, connA, "hi there")
	expect(ctx, t, connA, "hi there")
	expect(ctx, t, connB, "hi there")
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()

	payload, err := proto.Encode(proto.Message{Message: text})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func expect(ctx context.Context, t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msgs, err := proto.ParseFrame(string(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Message != text {
		t.Fatalf("got %+v, want %q", msgs, text)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigin = "http://allowed.example"
	ts := startTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := stdhttp.Header{}
	header.Set("Origin", "http://evil.example")
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	_, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err == nil {
		t.Fatal("expected dial from foreign origin to fail")
	}
	if resp != nil && resp.StatusCode != stdhttp.StatusForbidden {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestDrainQueuedCoalesces(t *testing.T) {
	queue := make(chan []byte, 4)
	queue <- []byte(`{"message":"b"}`)
	queue <- []byte(`{"message":"c"}`)

	batch := drainQueued(queue, [][]byte{[]byte(`{"message":"a"}`)})
	frame := proto.JoinFrames(batch)

	msgs, err := proto.ParseFrame(string(frame))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Message != "a" || msgs[2].Message != "c" {
		t.Fatalf("unexpected batch: %+v", msgs)
	}
	if len(queue) != 0 {
		t.Fatalf("queue not drained, %d left", len(queue))
	}
}

func TestDrainQueuedStopsAtClose(t *testing.T) {
	queue := make(chan []byte, 2)
	queue <- []byte("x")
	close(queue)

	batch := drainQueued(queue, nil)
	if len(batch) != 1 {
		t.Fatalf("batch len = %d, want 1", len(batch))
	}
}
