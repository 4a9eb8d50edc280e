package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFrame is returned when a line of an inbound frame is not a valid message.
var ErrMalformedFrame = errors.New("malformed frame")

// Message is the only payload exchanged with the server.
type Message struct {
	Message string `json:"message"`
}

// MaxMessageSize is the largest encoded frame a server accepts by default, in bytes.
const MaxMessageSize = 10000

// ParseFrame decodes a text frame holding one or more newline separated messages.
// Lines are decoded in order; the first bad line fails the whole frame.
func ParseFrame(frame string) ([]Message, error) {
	lines := strings.Split(frame, "\n")
	out := make([]Message, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedFrame, i, err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// Encode marshals a single message into one outbound frame.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// JoinFrames packs several payloads into one frame separated by '\n'.
func JoinFrames(payloads [][]byte) []byte {
	return bytes.Join(payloads, []byte{'\n'})
}
