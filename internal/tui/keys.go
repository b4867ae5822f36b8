package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/hasnain769/botharbor/internal/store"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Open     key.Binding
	Minimize key.Binding
	Submit   key.Binding
	Dismiss  key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Open:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open chat")),
		Minimize: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "minimize")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

//nolint:gocyclo // Keyboard handler requires branching for all key combinations
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c', 'd':
			return m, m.cleanup()
		}
	}

	// The configuration error panel accepts any key to exit.
	if m.configErr != nil {
		return m, m.cleanup()
	}

	if m.state == StateMinimized {
		return m.handleMinimizedKey(k)
	}

	switch k.Code {
	case tea.KeyEnter:
		return m.handleSubmit()

	case tea.KeyEscape:
		m.minimize()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMinimizedKey(k tea.Key) (tea.Model, tea.Cmd) {
	switch k.Code {
	case tea.KeyEnter, 'o':
		return m, m.expand()

	case tea.KeyEscape:
		m.showPopup = false
		return m, nil

	case 'q':
		return m, m.cleanup()
	}
	return m, nil
}

// expand opens the chat window. Opening dismisses the popup teaser for the
// rest of the run.
func (m *Model) expand() tea.Cmd {
	m.state = StateExpanded
	m.showPopup = false
	m.popupShown = true
	m.resize()
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return tea.Batch(m.input.Focus(), m.spinner.Tick)
}

func (m *Model) minimize() {
	m.state = StateMinimized
	m.input.Blur()
}

// handleSubmit starts one exchange. Refused while the bot is not loaded or
// a previous send is still in flight: the conversation allows only a single
// pending exchange.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.loading || !m.botLoaded {
		return m, nil
	}

	// Optimistic echo. The persisted copy is appended by the conversation.
	m.messages = append(m.messages, store.Message{
		Type:    store.MessageTypeUser,
		Content: text,
	})
	m.input.Reset()
	m.loading = true
	m.rebuildViewportContent()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.spinner.Tick,
		m.sendMessage(text),
	)
}

// cleanup cancels all in-flight work and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	return tea.Quit
}
