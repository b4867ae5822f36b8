package tui

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/hasnain769/botharbor/internal/store"
)

// bannerMessage is the transient connection banner shown on failed sends.
const bannerMessage = "Connection error"

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // Bubble Tea Update requires type switch on all message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Rebuild to animate the thinking dots while a send is pending
		// or the bot is still loading.
		if m.loading || (!m.botLoaded && m.botErr == nil) {
			m.rebuildViewportContent()
		}
		return m, cmd

	case botLoadedMsg:
		m.botLoaded = true
		m.messages = append(m.messages[:0], msg.messages...)
		m.styles = NewStyles(PaletteFor(msg.bot, m.conv.Params().Theme))
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		// The teaser fires only while the widget is still minimized.
		if m.state == StateMinimized && !m.popupShown {
			return m, showPopupAfter(popupDelay)
		}
		return m, nil

	case botLoadFailedMsg:
		m.botErr = msg.err
		m.rebuildViewportContent()
		return m, nil

	case sendResultMsg:
		m.loading = false
		if msg.err != nil {
			m.banner = bannerMessage
			m.resize()
			m.rebuildViewportContent()
			return m, tea.Batch(clearBannerAfter(bannerLinger), m.input.Focus())
		}

		// The user's message was echoed at submit time; append the rest.
		for _, appended := range msg.result.Appended {
			if appended.Type == store.MessageTypeUser {
				continue
			}
			m.messages = append(m.messages, appended)
		}
		m.quotaExceeded = msg.result.QuotaExceeded

		var cmds []tea.Cmd
		if msg.result.Failed {
			m.banner = bannerMessage
			m.resize()
			cmds = append(cmds, clearBannerAfter(bannerLinger))
		}
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		cmds = append(cmds, m.input.Focus())
		return m, tea.Batch(cmds...)

	case popupShowMsg:
		if m.state == StateMinimized && !m.popupShown {
			m.showPopup = true
			m.popupShown = true
			return m, hidePopupAfter(popupLinger)
		}
		return m, nil

	case popupHideMsg:
		m.showPopup = false
		return m, nil

	case bannerClearMsg:
		m.banner = ""
		m.resize()
		m.rebuildViewportContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize recomputes component dimensions from the window size and the
// currently reserved banner line.
func (m *Model) resize() {
	inputHeight := m.input.Height() + promptLines
	fixedHeight := headerLines + separatorLines + inputHeight + helpLines
	if m.banner != "" {
		fixedHeight += bannerLines
	}
	vpHeight := max(m.height-fixedHeight, minViewport)

	m.viewport.SetWidth(m.width)
	m.viewport.SetHeight(vpHeight)
	m.input.SetWidth(m.width - 4) // Room for "> " prompt
	m.help.SetWidth(m.width)
	m.markdown.UpdateWidth(m.width)
}
