package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/hasnain769/botharbor/internal/client"
)

// Palette holds the widget's presentational colors.
type Palette struct {
	Primary      string // Header and launcher background
	UserMessage  string // User message accent
	ThinkingDots string // Loading indicator
	SendButton   string // Send affordance / prompt accent
}

// Built-in theme palettes. Hex values match the hosted widget.
var themePalettes = map[string]Palette{
	"default": {
		Primary:      "#a0616a",
		UserMessage:  "#3b82f6",
		ThinkingDots: "#10b981",
		SendButton:   "#10b981",
	},
	"dark": {
		Primary:      "#1f2937",
		UserMessage:  "#374151",
		ThinkingDots: "#6b7280",
		SendButton:   "#3b82f6",
	},
	"green": {
		Primary:      "#14b8a6",
		UserMessage:  "#0f766e",
		ThinkingDots: "#6b7280",
		SendButton:   "#06b6d4",
	},
}

// PaletteFor selects colors for the widget. Stateless: bot-configured colors
// win field by field, then the named theme, then the default palette.
func PaletteFor(bot *client.BotData, theme string) Palette {
	p, ok := themePalettes[theme]
	if !ok {
		p = themePalettes["default"]
	}

	if bot != nil {
		if bot.ChatWindowBackgroundColor != "" {
			p.Primary = bot.ChatWindowBackgroundColor
		}
		if bot.UserMessageBackgroundColor != "" {
			p.UserMessage = bot.UserMessageBackgroundColor
		}
		if bot.ChatbotThinkingDotsColor != "" {
			p.ThinkingDots = bot.ChatbotThinkingDotsColor
		}
		if bot.SendMessageButtonColor != "" {
			p.SendButton = bot.SendMessageButtonColor
		}
	}

	return p
}

// Styles contains all lipgloss styles for the widget.
type Styles struct {
	Header    lipgloss.Style
	Launcher  lipgloss.Style
	Popup     lipgloss.Style
	User      lipgloss.Style
	Bot       lipgloss.Style
	Thinking  lipgloss.Style
	Banner    lipgloss.Style
	ErrorBox  lipgloss.Style
	ErrorText lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds widget styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 1),
		Launcher: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Primary)),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.SendButton)).
			Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.UserMessage)),
		Bot:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.SendButton)),
		Thinking:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.ThinkingDots)),
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2),
		ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.SendButton)),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}
