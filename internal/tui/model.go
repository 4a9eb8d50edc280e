// Package tui renders the chat panel: a header, the scrolling message list and
// a composer row, driven by Bubble Tea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/chat"
	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// Connection is what the panel needs from the socket.
type Connection interface {
	chat.Sender
	Frames() <-chan string
}

type (
	frameMsg  string
	closedMsg struct{}
)

const (
	title          = "Chat"
	composerHeight = 4
)

// Model is the Bubble Tea model of the chat panel.
type Model struct {
	conn   Connection
	log    *zerolog.Logger
	keys   keyMap
	styles Styles

	history  chat.History
	viewport viewport.Model
	textarea textarea.Model
	help     help.Model

	// ready flips on the first WindowSizeMsg, once the viewport exists.
	ready  bool
	width  int
	height int
}

// New builds the panel around an already opened connection.
func New(conn Connection, logger *zerolog.Logger) Model {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	keys := defaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	// Unlimited; Conn.Send checks the encoded size instead.
	ta.CharLimit = 0
	ta.SetHeight(composerHeight)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	return Model{
		conn:     conn,
		log:      logger,
		keys:     keys,
		styles:   DefaultStyles(),
		textarea: ta,
		help:     help.New(),
	}
}

// Init starts the cursor blink and the frame listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForFrame(m.conn.Frames()))
}

// waitForFrame yields the next inbound frame as a message. It is re-armed
// after every frame so the stream has exactly one reader.
func waitForFrame(frames <-chan string) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return closedMsg{}
		}
		return frameMsg(frame)
	}
}

// Update handles window, socket and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case frameMsg:
		n, err := m.history.Receive(string(msg))
		if err != nil {
			m.log.Error().Err(err).Str("data", string(msg)).Msg("failed to parse frame")
		} else if n > 0 {
			m.refresh()
		}
		return m, waitForFrame(m.conn.Frames())

	case closedMsg:
		m.log.Info().Msg("inbound stream ended")
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SendNow):
		m.send()
		return m, nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if chat.HandleKey(keyEvent(msg)) == chat.KeySend {
		m.send()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) send() {
	sent, err := chat.Submit(m.textarea.Value(), m.conn)
	if err != nil {
		m.log.Warn().Err(err).Msg("send message")
	}
	if sent {
		m.textarea.Reset()
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	buttonWidth := lipgloss.Width(m.styles.SendButton.Render("➤"))
	m.textarea.SetWidth(max(width-buttonWidth-m.styles.Composer.GetHorizontalFrameSize(), 1))
	m.help.Width = width

	vpHeight := height - m.chromeHeight()
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
		return
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
}

func (m Model) chromeHeight() int {
	header := 1
	composer := composerHeight + m.styles.Composer.GetVerticalFrameSize()
	helpLine := 1
	return header + composer + helpLine
}

// refresh re-renders the list and scrolls to the newest entry. It does nothing
// until the viewport has been sized.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	maxWidth := max(m.viewport.Width*3/4, 8)
	frame := m.styles.Bubble.GetHorizontalFrameSize()

	var b strings.Builder
	for _, msg := range m.history.Messages() {
		width := min(lipgloss.Width(msg.Message)+frame, maxWidth)
		b.WriteString(m.styles.Bubble.Width(width).Render(msg.Message))
		b.WriteByte('\n')
	}
	return b.String()
}

// View renders the panel.
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.styles.Header.Width(m.width).Render(title)
	composer := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Composer.Render(m.textarea.View()),
		m.styles.SendButton.Render("➤"),
	)
	helpLine := m.styles.Help.Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), composer, helpLine)
}

// Messages returns the received messages in display order.
func (m Model) Messages() []proto.Message {
	return m.history.Messages()
}

// Composer returns the text currently being typed.
func (m Model) Composer() string {
	return m.textarea.Value()
}
