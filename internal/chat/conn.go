package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

var (
	// ErrNotOpen is returned by Send while connecting or after close.
	ErrNotOpen = errors.New("connection not open")
	// ErrSendQueueFull is returned when the writer has fallen behind.
	ErrSendQueueFull = errors.New("send queue full")
	// ErrMessageTooLarge is returned for a message whose frame exceeds the server's read limit.
	ErrMessageTooLarge = errors.New("message too large")
)

// State is the connection lifecycle phase. It only moves forward.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	frameBuffer   = 16
	sendQueueSize = 256
)

// Conn owns one socket for its whole life. It is never reopened.
type Conn struct {
	url      string
	log      *zerolog.Logger
	frames   chan string
	outbound chan []byte
	cancel   context.CancelFunc
	done     chan struct{}

	mu        sync.Mutex
	state     State
	transport Transport

	closeOnce   sync.Once
	releaseOnce sync.Once
}

// Open starts connecting to url in the background and returns at once.
func Open(url string, dial Dialer, logger *zerolog.Logger) *Conn {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		url:      url,
		log:      logger,
		frames:   make(chan string, frameBuffer),
		outbound: make(chan []byte, sendQueueSize),
		cancel:   cancel,
		done:     make(chan struct{}),
		state:    StateConnecting,
	}
	go c.run(ctx, dial)
	return c
}

// Frames yields inbound text frames in receive order. The channel is closed
// once the connection ends. It has a single consumer.
func (c *Conn) Frames() <-chan string {
	return c.frames
}

// State reports the current lifecycle phase.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether Send would accept a message.
func (c *Conn) IsOpen() bool {
	return c.State() == StateOpen
}

// Send queues msg as a single text frame. It does not wait for delivery.
func (c *Conn) Send(msg proto.Message) error {
	if !c.IsOpen() {
		return ErrNotOpen
	}
	data, err := proto.Encode(msg)
	if err != nil {
		return err
	}
	// The server closes the socket on an oversized frame.
	if len(data) > proto.MaxMessageSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLarge, len(data), proto.MaxMessageSize)
	}
	select {
	case c.outbound <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close tears the connection down whatever its state and waits for its
// goroutines to exit. Only the first call does any work.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		t := c.transport
		c.state = StateClosed
		c.mu.Unlock()

		if t != nil {
			c.release(t)
		}
		c.cancel()
	})
	<-c.done
	return nil
}

func (c *Conn) run(ctx context.Context, dial Dialer) {
	defer close(c.done)
	defer close(c.frames)

	t, err := dial(ctx, c.url)
	if err != nil {
		c.setState(StateClosed)
		if ctx.Err() == nil {
			c.log.Warn().Err(err).Str("url", c.url).Msg("connect failed")
		}
		return
	}

	c.mu.Lock()
	if c.state == StateClosed {
		// Close won the race against the dial.
		c.mu.Unlock()
		c.release(t)
		return
	}
	c.transport = t
	c.state = StateOpen
	c.mu.Unlock()
	c.log.Info().Str("url", c.url).Msg("connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx, t)
	}()

	err = c.readLoop(ctx, t)
	c.setState(StateClosed)
	c.cancel()
	<-writerDone
	c.release(t)

	if err != nil && !isExpectedClose(err) {
		c.log.Warn().Err(err).Msg("connection closed with error")
		return
	}
	c.log.Info().Msg("connection closed")
}

func (c *Conn) readLoop(ctx context.Context, t Transport) error {
	for {
		data, err := t.Read(ctx)
		if err != nil {
			return err
		}
		c.log.Debug().Str("data", string(data)).Msg("event data")

		select {
		case c.frames <- string(data):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Conn) writeLoop(ctx context.Context, t Transport) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.outbound:
			if err := t.Write(ctx, data); err != nil {
				c.log.Warn().Err(err).Msg("send failed")
			}
		}
	}
}

func (c *Conn) release(t Transport) {
	c.releaseOnce.Do(func() {
		if err := t.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close transport")
		}
	})
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func isExpectedClose(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
