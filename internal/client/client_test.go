package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hasnain769/botharbor/internal/log"
)

func TestBotInformation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botInformation/bot-1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"bot": map[string]any{
				"id":               "bot-1",
				"name":             "Support Bot",
				"system_prompt":    "You help customers.",
				"model":            "gpt-4o-mini",
				"temperature":      0.4,
				"greeting_message": "Hi! How can I help?",
			},
			"qa_pairs": []map[string]any{
				{"id": 1, "question": "Hours?", "answer": "9-5."},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, log.NewNop())
	info, err := c.BotInformation(context.Background(), "bot-1")
	if err != nil {
		t.Fatalf("BotInformation() failed: %v", err)
	}
	if info.Bot.Name != "Support Bot" || info.Bot.Model != "gpt-4o-mini" {
		t.Errorf("unexpected bot data: %+v", info.Bot)
	}
	if len(info.QAPairs) != 1 || info.QAPairs[0].Question != "Hours?" {
		t.Errorf("unexpected qa pairs: %+v", info.QAPairs)
	}
}

func TestBotInformationNotSuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Bot not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, log.NewNop())
	_, err := c.BotInformation(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for success:false")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "Bot not found" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
}

func TestChatSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.BotID != "bot-1" || req.CurrentMsg != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "hi!", ConversationID: "conv-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, log.NewNop())
	resp, err := c.Chat(context.Background(), ChatRequest{BotID: "bot-1", CurrentMsg: "hello", Message: "hello"})
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}
	if resp.Response != "hi!" || resp.ConversationID != "conv-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestChatErrorStatusAndDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", 403, `{"detail": "Message quota reached"}`, "Message quota reached"},
		{"structured detail", 422, `{"detail": [{"loc": ["body"], "msg": "invalid"}]}`, `[{"loc":["body"],"msg":"invalid"}]`},
		{"unparseable body", 500, `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, 0, log.NewNop())
			_, err := c.Chat(context.Background(), ChatRequest{BotID: "bot-1"})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestChatContextDeadline(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, time.Minute, log.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Chat(ctx, ChatRequest{BotID: "bot-1"})
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if Classify(err) != KindTimeout {
		t.Errorf("Classify(%v) = %v, want KindTimeout", err, Classify(err))
	}
}
