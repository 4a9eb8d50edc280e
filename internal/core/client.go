package core

// sendBuffer bounds how far a client may fall behind before the hub drops it.
const sendBuffer = 256

// Client is a connected socket as seen by the hub.
type Client struct {
	ID string
	// Send carries frames to the client's writer. The hub closes it when the
	// client is unregistered or dropped.
	Send chan []byte
}

// NewClient constructs a client with an initialized outbound queue.
func NewClient(id string) *Client {
	return &Client{
		ID:   id,
		Send: make(chan []byte, sendBuffer),
	}
}
