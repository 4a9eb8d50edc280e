package chat

import "github.com/vovakirdan/wirechat-client/internal/proto"

// History is the append-only, display-ordered message log of one session.
// It is owned by the UI goroutine and is not safe for concurrent use.
type History struct {
	messages []proto.Message
}

// Append adds msgs to the end in the order given.
func (h *History) Append(msgs ...proto.Message) {
	h.messages = append(h.messages, msgs...)
}

// Len returns the number of messages received so far.
func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns a copy of the log.
func (h *History) Messages() []proto.Message {
	out := make([]proto.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Receive parses one inbound frame and appends its messages. A malformed frame
// is dropped whole and its error returned; the log is left unchanged.
func (h *History) Receive(frame string) (int, error) {
	msgs, err := proto.ParseFrame(frame)
	if err != nil {
		return 0, err
	}
	h.Append(msgs...)
	return len(msgs), nil
}
