package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

type fakeConn struct {
	open   bool
	frames chan string
	sent   []proto.Message
}

func newFakeConn(open bool) *fakeConn {
	return &fakeConn{open: open, frames: make(chan string, 4)}
}

func (c *fakeConn) IsOpen() bool { return c.open }

func (c *fakeConn) Send(msg proto.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Frames() <-chan string { return c.frames }

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok, "Update must return tui.Model")
	return updated, cmd
}

func sized(t *testing.T, conn Connection) Model {
	t.Helper()
	m, _ := update(t, New(conn, nil), tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestInboundFrameRendersInOrder(t *testing.T) {
	m := sized(t, newFakeConn(true))

	m, cmd := update(t, m, frameMsg("{\"message\":\"hi\"}\n{\"message\":\"there\"}"))
	require.NotNil(t, cmd, "listener must be re-armed after a frame")

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Message)
	assert.Equal(t, "there", msgs[1].Message)

	view := m.View()
	hi := strings.Index(view, "hi")
	there := strings.Index(view, "there")
	require.NotEqual(t, -1, hi)
	require.NotEqual(t, -1, there)
	assert.Less(t, hi, there)
}

func TestMalformedFrameIsDropped(t *testing.T) {
	m := sized(t, newFakeConn(true))
	m, _ = update(t, m, frameMsg(`{"message":"keep"}`))

	m, cmd := update(t, m, frameMsg("{\"message\":\"lost\"}\nnope"))
	require.NotNil(t, cmd, "a bad frame must not stop the listener")
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, "keep", m.Messages()[0].Message)
}

func TestFramesBeforeResizeAreKept(t *testing.T) {
	m := New(newFakeConn(true), nil)
	assert.Equal(t, "\n  Initializing...", m.View())

	m, _ = update(t, m, frameMsg(`{"message":"early"}`))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Contains(t, m.View(), "early")
}

func TestEnterSendsAndClearsComposer(t *testing.T) {
	conn := newFakeConn(true)
	m := typeText(t, sized(t, conn), "hello")
	require.Equal(t, "hello", m.Composer())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, proto.Message{Message: "hello"}, conn.sent[0])
	assert.Equal(t, "", m.Composer())
	assert.Empty(t, m.Messages(), "sent text is not rendered until echoed")
}

func TestAltEnterInsertsNewline(t *testing.T) {
	conn := newFakeConn(true)
	m := typeText(t, sized(t, conn), "one")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(t, m, "two")

	assert.Empty(t, conn.sent)
	assert.Equal(t, "one\ntwo", m.Composer())
}

func TestEnterDuringPasteDoesNotSend(t *testing.T) {
	conn := newFakeConn(true)
	m := typeText(t, sized(t, conn), "ni")

	// Bracketed paste arrives as runes, newlines included.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\nb"), Paste: true})

	assert.Empty(t, conn.sent)
	assert.Equal(t, "nia\nb", m.Composer())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, "nia\nb", conn.sent[0].Message)
	assert.Equal(t, "", m.Composer())
}

func TestEnterWithBlankComposer(t *testing.T) {
	conn := newFakeConn(true)
	m := typeText(t, sized(t, conn), "   ")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, conn.sent)
	assert.Equal(t, "   ", m.Composer())
}

func TestEnterWithoutOpenConnection(t *testing.T) {
	conn := newFakeConn(false)
	m := typeText(t, sized(t, conn), "hello")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, conn.sent)
	assert.Equal(t, "hello", m.Composer(), "composer is kept when nothing was sent")
}

func TestComposerIsNotCappedByRunes(t *testing.T) {
	m := sized(t, newFakeConn(true))

	long := strings.Repeat("ж", 12000)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(long), Paste: true})

	assert.Equal(t, long, m.Composer())
}

func TestSendButtonShortcut(t *testing.T) {
	conn := newFakeConn(true)
	m := typeText(t, sized(t, conn), "clicked")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, conn.sent, 1)
	assert.Equal(t, "clicked", conn.sent[0].Message)
	assert.Equal(t, "", m.Composer())
}

func TestStreamEndStopsListening(t *testing.T) {
	m := sized(t, newFakeConn(true))

	_, cmd := update(t, m, closedMsg{})
	assert.Nil(t, cmd)
}

func TestWaitForFrame(t *testing.T) {
	frames := make(chan string, 1)
	frames <- `{"message":"x"}`

	assert.Equal(t, frameMsg(`{"message":"x"}`), waitForFrame(frames)())

	close(frames)
	assert.Equal(t, closedMsg{}, waitForFrame(frames)())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := update(t, sized(t, newFakeConn(true)), k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}
