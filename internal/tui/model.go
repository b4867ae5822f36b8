// Package tui renders the chat widget as a Bubble Tea terminal interface.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hasnain769/botharbor/internal/chat"
	"github.com/hasnain769/botharbor/internal/store"
)

// State represents the widget state machine.
type State int

// Widget state machine states. The widget always starts minimized.
const (
	StateMinimized State = iota // Collapsed to the launcher bubble
	StateExpanded               // Full chat window
)

// Timer durations for the popup teaser and the transient error banner.
const (
	popupDelay   = 2 * time.Second // After bot load, while still minimized
	popupLinger  = 5 * time.Second // Auto-hide if not interacted with
	bannerLinger = 3 * time.Second
)

// popupPreviewLen bounds the greeting excerpt shown in the teaser bubble.
const popupPreviewLen = 60

// Layout constants for viewport height calculation.
const (
	headerLines    = 1
	separatorLines = 2 // Above and below input
	helpLines      = 1
	promptLines    = 1
	bannerLines    = 1 // Reserved only while a banner is visible
	minViewport    = 3
)

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	// Input
	input textarea.Model

	// State
	state         State
	loading       bool // A send is in flight; guards against concurrent sends
	botLoaded     bool
	botErr        error
	configErr     error // Terminal: view renders only the configuration panel
	quotaExceeded bool
	showPopup     bool
	popupShown    bool // The teaser fires at most once per run
	banner        string

	// Transcript display copy. Fed from load and send results so the
	// conversation is only ever touched from command goroutines.
	messages []store.Message

	// Output
	spinner  spinner.Model
	viewBuf  strings.Builder // Reusable buffer for View() to reduce allocations
	viewport viewport.Model

	// Help bar for keyboard shortcuts
	help help.Model
	keys keyMap

	// Dependencies (direct, no interface)
	conv      *chat.Conversation
	ctx       context.Context
	ctxCancel context.CancelFunc

	// Dimensions
	width  int
	height int

	// Styles, rebuilt once bot colors arrive
	styles Styles

	// Markdown rendering for bot messages (nil = plain text)
	markdown *markdownRenderer
}

// New creates a Model for the given conversation.
// Returns error if required dependencies are nil.
//
// IMPORTANT: ctx MUST be the same context passed to tea.WithContext()
// to ensure consistent cancellation behavior.
func New(ctx context.Context, conv *chat.Conversation) (*Model, error) {
	if conv == nil {
		return nil, errors.New("tui.New: conversation is required")
	}
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	m := newBaseModel()
	m.conv = conv
	m.ctx = ctx
	m.ctxCancel = cancel
	m.styles = NewStyles(PaletteFor(nil, conv.Params().Theme))
	return m, nil
}

// NewConfigError creates a Model that renders only the configuration error
// panel. Mirrors the embedded widget, which shows the panel in place of the
// chat window rather than refusing to start.
func NewConfigError(configErr error) *Model {
	m := newBaseModel()
	m.configErr = configErr
	m.styles = NewStyles(PaletteFor(nil, ""))
	return m
}

func newBaseModel() *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.SetHeight(1)
	ta.SetWidth(120) // Updated on WindowSizeMsg
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	// No background colors, just plain text in the input row
	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Viewport keys are routed explicitly in handleKey to avoid
	// conflicts with the textarea.
	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{}

	return &Model{
		state:    StateMinimized,
		input:    ta,
		spinner:  sp,
		viewport: vp,
		help:     help.New(),
		keys:     newKeyMap(),
		markdown: newMarkdownRenderer(80),
		width:    80, // Default width until WindowSizeMsg arrives
	}
}

// Init implements tea.Model. The bot fetch starts immediately, even while
// minimized, so the popup teaser and restored history are ready on expand.
func (m *Model) Init() tea.Cmd {
	if m.configErr != nil {
		return nil
	}
	return tea.Batch(
		m.spinner.Tick,
		m.loadBot(),
	)
}

// botName returns the display name for the header.
func (m *Model) botName() string {
	if bot := m.conv.Bot(); bot != nil && bot.Name != "" {
		return bot.Name
	}
	return "Chat"
}

// greetingPreview returns the teaser excerpt: the first bot message,
// truncated.
func (m *Model) greetingPreview() string {
	for _, msg := range m.messages {
		if msg.Type != store.MessageTypeBot {
			continue
		}
		preview := msg.Content
		if len(preview) > popupPreviewLen {
			preview = preview[:popupPreviewLen] + "…"
		}
		return preview
	}
	return "Hi! How can I help you?"
}
