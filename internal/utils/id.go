package utils

import "github.com/google/uuid"

// NewID returns a random identifier for a connected client.
func NewID() string {
	return uuid.NewString()
}
