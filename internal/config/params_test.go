package config

import (
	"errors"
	"net/url"
	"testing"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		name     string
		botID    string
		theme    string
		greeting string
		want     Params
		wantErr  error
	}{
		{
			name:  "bot id only gets default theme",
			botID: "bot-1",
			want:  Params{BotID: "bot-1", Theme: "default"},
		},
		{
			name:     "explicit theme and greeting preserved",
			botID:    "bot-1",
			theme:    "dark",
			greeting: "Hi there!",
			want:     Params{BotID: "bot-1", Theme: "dark", Greeting: "Hi there!"},
		},
		{
			name:  "unknown theme is not an error",
			botID: "bot-1",
			theme: "sepia",
			want:  Params{BotID: "bot-1", Theme: "sepia"},
		},
		{
			name:    "missing bot id",
			wantErr: ErrMissingBotID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParams(tt.botID, tt.theme, tt.greeting)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewParams() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewParams() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NewParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseWidgetQuery(t *testing.T) {
	q := url.Values{}
	q.Set("bot_id", "bot-42")
	q.Set("greeting", "Welcome")

	p, err := ParseWidgetQuery(q)
	if err != nil {
		t.Fatalf("ParseWidgetQuery() unexpected error: %v", err)
	}
	if p.BotID != "bot-42" || p.Theme != "default" || p.Greeting != "Welcome" {
		t.Errorf("ParseWidgetQuery() = %+v", p)
	}
}

func TestParseWidgetQueryMissingBotID(t *testing.T) {
	_, err := ParseWidgetQuery(url.Values{})
	if !errors.Is(err, ErrMissingBotID) {
		t.Fatalf("expected ErrMissingBotID, got %v", err)
	}
}
