package core

import (
	"testing"
	"time"
)

func mustFrame(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()

	select {
	case frame, ok := <-ch:
		if !ok {
			t.Fatal("queue closed before a frame arrived")
		}
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("expected frame not received")
	}
	return nil
}

func mustClosed(t *testing.T, ch <-chan []byte) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("queue was not closed")
		}
	}
}
