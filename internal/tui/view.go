package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/hasnain769/botharbor/internal/store"
)

// View implements tea.Model.
// Uses AltScreen with viewport for scrollable message history.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	switch {
	case m.configErr != nil:
		m.renderConfigError()
	case m.state == StateMinimized:
		m.renderMinimized()
	default:
		m.renderExpanded()
	}

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// renderConfigError renders the panel shown when the widget was started
// without a usable configuration. Any key exits.
func (m *Model) renderConfigError() {
	body := m.styles.ErrorText.Render("Chat widget configuration error") +
		"\n\n" + m.configErr.Error() +
		"\n\n" + m.styles.Help.Render("A bot id is required. Press any key to exit.")
	_, _ = m.viewBuf.WriteString(m.styles.ErrorBox.Render(body))
	_, _ = m.viewBuf.WriteString("\n")
}

// renderMinimized renders the launcher bubble and, when active, the popup
// teaser above it.
func (m *Model) renderMinimized() {
	if m.showPopup {
		_, _ = m.viewBuf.WriteString(m.styles.Popup.Render(m.greetingPreview()))
		_, _ = m.viewBuf.WriteString("\n")
	}

	_, _ = m.viewBuf.WriteString(m.styles.Launcher.Render("💬 " + m.botName()))
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Open, m.keys.Quit,
	}))
}

// renderExpanded renders the full chat window.
func (m *Model) renderExpanded() {
	_, _ = m.viewBuf.WriteString(m.styles.Header.Render(m.botName()))
	_, _ = m.viewBuf.WriteString("\n")

	if m.banner != "" {
		_, _ = m.viewBuf.WriteString(m.styles.Banner.Render(m.banner))
		_, _ = m.viewBuf.WriteString("\n")
	}

	_, _ = m.viewBuf.WriteString(m.viewport.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Submit, m.keys.Minimize, m.keys.Scroll, m.keys.Quit,
	}))
}

// rebuildViewportContent reconstructs the transcript from messages and state.
// Called when messages, loading state, or dimensions change.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	switch {
	case m.botErr != nil:
		_, _ = b.WriteString(m.styles.ErrorText.Render("Failed to load chatbot configuration"))
		_, _ = b.WriteString("\n")

	case !m.botLoaded:
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Loading...\n")
	}

	for _, msg := range m.messages {
		switch msg.Type {
		case store.MessageTypeUser:
			_, _ = b.WriteString(m.styles.User.Render("You> "))
			_, _ = b.WriteString(msg.Content)
		case store.MessageTypeBot:
			_, _ = b.WriteString(m.styles.Bot.Render(m.botName() + "> "))
			_, _ = b.WriteString(m.markdown.Render(msg.Content))
		}
		_, _ = b.WriteString("\n\n")
	}

	// Thinking dots while an exchange is pending
	if m.loading {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(m.styles.Thinking.Render("..."))
		_, _ = b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderSeparator returns a horizontal line separator.
func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}
