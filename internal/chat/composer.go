package chat

import (
	"errors"
	"strings"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// Sender is the outbound side of a connection.
type Sender interface {
	IsOpen() bool
	Send(msg proto.Message) error
}

// Submit sends the composer text as one message. It reports whether a send was
// attempted; when it was, the caller clears the composer even if err is non-nil.
// Blank text or a sender that is not open is a silent no-op, and a message too
// large to send is refused without counting as an attempt. The text goes out
// untrimmed and is not added to any local history: display waits for the echo.
func Submit(text string, s Sender) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	if s == nil || !s.IsOpen() {
		return false, nil
	}
	if err := s.Send(proto.Message{Message: text}); err != nil {
		if errors.Is(err, ErrMessageTooLarge) {
			return false, err
		}
		return true, err
	}
	return true, nil
}

// KeyEvent is the part of a key press the composer cares about.
type KeyEvent struct {
	Enter bool
	// Shift is the newline modifier.
	Shift bool
	// Composing is set while an input method (or a paste) is mid-sequence.
	Composing bool
}

// KeyAction tells the UI what to do with a key press.
type KeyAction int

const (
	// KeyPassThrough leaves the key to the text input's default handling.
	KeyPassThrough KeyAction = iota
	// KeySend suppresses the default newline and submits the composer.
	KeySend
)

// HandleKey maps a key press onto a composer action.
func HandleKey(ev KeyEvent) KeyAction {
	if ev.Composing {
		return KeyPassThrough
	}
	if ev.Enter && !ev.Shift {
		return KeySend
	}
	return KeyPassThrough
}
