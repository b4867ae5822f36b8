package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingBotID indicates no bot identifier was provided.
// This is the widget's only terminal configuration error.
var ErrMissingBotID = errors.New("bot id is required")

// DefaultTheme is used when no theme is requested.
const DefaultTheme = "default"

// Params are the widget parameters, resolved once at startup and immutable
// for the lifetime of the widget instance.
//
// Greeting, when set, overrides the backend-provided greeting message for the
// very first rendered message only.
type Params struct {
	BotID    string
	Theme    string
	Greeting string
}

// NewParams builds widget parameters from explicit values.
// An unknown theme is not an error: theming falls back to the default palette.
func NewParams(botID, theme, greeting string) (Params, error) {
	if botID == "" {
		return Params{}, ErrMissingBotID
	}
	if theme == "" {
		theme = DefaultTheme
	}
	return Params{BotID: botID, Theme: theme, Greeting: greeting}, nil
}

// ParseWidgetQuery resolves widget parameters from an iframe URL query string
// (?bot_id=<required>&theme=<optional>&greeting=<optional>).
func ParseWidgetQuery(query url.Values) (Params, error) {
	p, err := NewParams(query.Get("bot_id"), query.Get("theme"), query.Get("greeting"))
	if err != nil {
		return Params{}, fmt.Errorf("parsing widget query: %w", err)
	}
	return p, nil
}
