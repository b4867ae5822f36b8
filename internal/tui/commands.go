package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hasnain769/botharbor/internal/chat"
	"github.com/hasnain769/botharbor/internal/client"
	"github.com/hasnain769/botharbor/internal/store"
)

// Bubble Tea message types for widget events.
type botLoadedMsg struct {
	bot      *client.BotData
	messages []store.Message
}

type botLoadFailedMsg struct {
	err error
}

type sendResultMsg struct {
	result chat.SendResult
	err    error
}

type popupShowMsg struct{}

type popupHideMsg struct{}

type bannerClearMsg struct{}

// loadBot creates the command for the one-per-run bot information fetch.
// The conversation is only touched from command goroutines; results flow
// back to the model as messages.
func (m *Model) loadBot() tea.Cmd {
	return func() tea.Msg {
		if err := m.conv.LoadBot(m.ctx); err != nil {
			return botLoadFailedMsg{err: err}
		}
		return botLoadedMsg{
			bot:      m.conv.Bot(),
			messages: m.conv.Messages(),
		}
	}
}

// sendMessage creates the command for one exchange. The loading flag keeps
// a single send in flight, which is the conversation's concurrency contract.
func (m *Model) sendMessage(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.conv.Send(m.ctx, text)
		return sendResultMsg{result: result, err: err}
	}
}

func showPopupAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return popupShowMsg{} })
}

func hidePopupAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return popupHideMsg{} })
}

func clearBannerAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return bannerClearMsg{} })
}
