package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hasnain769/botharbor/internal/client"
	"github.com/hasnain769/botharbor/internal/config"
	"github.com/hasnain769/botharbor/internal/log"
	"github.com/hasnain769/botharbor/internal/store"
)

func testTime() time.Time {
	return time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
}

// backend is a scripted chat API for conversation tests.
type backend struct {
	botInfoCalls atomic.Int64
	chatCalls    atomic.Int64

	greeting   string
	chatStatus int    // 0 means 200
	chatBody   string // raw chat response body
	convID     string
}

func (b *backend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /botInformation/{botID}", func(w http.ResponseWriter, r *http.Request) {
		b.botInfoCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"bot": map[string]any{
				"id":               r.PathValue("botID"),
				"name":             "Test Bot",
				"system_prompt":    "Be helpful.",
				"model":            "gpt-4o-mini",
				"temperature":      0.5,
				"greeting_message": b.greeting,
			},
		})
	})

	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		b.chatCalls.Add(1)
		if b.chatStatus != 0 && b.chatStatus != http.StatusOK {
			w.WriteHeader(b.chatStatus)
			fmt.Fprint(w, b.chatBody)
			return
		}
		if b.chatBody != "" {
			fmt.Fprint(w, b.chatBody)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response":        "echo",
			"conversation_id": b.convID,
		})
	})

	return mux
}

func newTestConversation(t *testing.T, b *backend) (*Conversation, *store.Store) {
	t.Helper()

	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db.DB); err != nil {
		t.Fatalf("store.Migrate() failed: %v", err)
	}
	st := store.New(db.DB, log.NewNop())

	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	params, err := config.NewParams("bot-1", "", "")
	if err != nil {
		t.Fatalf("NewParams() failed: %v", err)
	}

	return New(params, st, client.New(srv.URL, 0, log.NewNop()), log.NewNop()), st
}

func TestLoadBotSeedsGreeting(t *testing.T) {
	conv, st := newTestConversation(t, &backend{greeting: "Hello from the bot"})

	if err := conv.LoadBot(context.Background()); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	msgs := conv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].Type != store.MessageTypeBot || msgs[0].Content != "Hello from the bot" {
		t.Errorf("unexpected greeting: %+v", msgs[0])
	}

	// The greeting is persisted.
	if stored := st.LoadMessages(context.Background(), "bot-1"); len(stored) != 1 {
		t.Errorf("greeting not persisted, stored %d messages", len(stored))
	}
}

func TestGreetingParamOverridesBackend(t *testing.T) {
	conv, _ := newTestConversation(t, &backend{greeting: "backend greeting"})
	conv.params.Greeting = "param greeting"

	if err := conv.LoadBot(context.Background()); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	msgs := conv.Messages()
	if len(msgs) != 1 || msgs[0].Content != "param greeting" {
		t.Errorf("expected param greeting to win, got %+v", msgs)
	}
}

func TestLoadBotRestoresHistoryWithoutReseeding(t *testing.T) {
	conv, st := newTestConversation(t, &backend{greeting: "Hello"})

	prior := []store.Message{
		{ID: "user_1", Type: store.MessageTypeUser, Content: "old question", Timestamp: testTime()},
		{ID: "bot_1", Type: store.MessageTypeBot, Content: "old answer", Timestamp: testTime()},
	}
	if err := st.SaveMessages(context.Background(), "bot-1", prior); err != nil {
		t.Fatalf("SaveMessages() failed: %v", err)
	}

	if err := conv.LoadBot(context.Background()); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	msgs := conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 restored messages, got %d", len(msgs))
	}
	if msgs[0].Content != "old question" {
		t.Errorf("unexpected restored history: %+v", msgs)
	}
}

func TestSendSuccessStoresConversationIDOnce(t *testing.T) {
	b := &backend{convID: "conv-first"}
	conv, st := newTestConversation(t, b)
	ctx := context.Background()

	if err := conv.LoadBot(ctx); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	res, err := conv.Send(ctx, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if res.Failed {
		t.Fatal("Send() unexpectedly failed")
	}
	if len(res.Appended) != 2 {
		t.Fatalf("expected user+bot appended, got %d", len(res.Appended))
	}
	if res.Appended[0].Type != store.MessageTypeUser || res.Appended[1].Type != store.MessageTypeBot {
		t.Errorf("wrong append order: %+v", res.Appended)
	}
	if conv.ConversationID() != "conv-first" {
		t.Errorf("ConversationID() = %q", conv.ConversationID())
	}

	stored, err := st.ConversationID(ctx, "bot-1")
	if err != nil {
		t.Fatalf("store.ConversationID() failed: %v", err)
	}
	if stored != "conv-first" {
		t.Errorf("persisted conversation id = %q", stored)
	}

	// A later response with a different id never overwrites the first.
	b.convID = "conv-second"
	if _, err := conv.Send(ctx, "again"); err != nil {
		t.Fatalf("second Send() failed: %v", err)
	}
	if conv.ConversationID() != "conv-first" {
		t.Errorf("conversation id overwritten: %q", conv.ConversationID())
	}
}

func TestSendQuotaLockout(t *testing.T) {
	b := &backend{chatStatus: http.StatusForbidden, chatBody: `{"detail": "Message quota reached"}`}
	conv, _ := newTestConversation(t, b)
	ctx := context.Background()

	if err := conv.LoadBot(ctx); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	res, err := conv.Send(ctx, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if !res.Failed || !res.QuotaExceeded {
		t.Fatalf("expected failed quota result, got %+v", res)
	}
	if got := res.Appended[1].Content; !strings.Contains(got, "message limit") {
		t.Errorf("expected quota sentence, got %q", got)
	}
	if b.chatCalls.Load() != 1 {
		t.Fatalf("expected 1 chat call, got %d", b.chatCalls.Load())
	}

	// While locked out: zero network calls, exactly the lockout message.
	res, err = conv.Send(ctx, "are you there?")
	if err != nil {
		t.Fatalf("locked-out Send() failed: %v", err)
	}
	if b.chatCalls.Load() != 1 {
		t.Errorf("locked-out send hit the network: %d calls", b.chatCalls.Load())
	}
	if len(res.Appended) != 1 || res.Appended[0].Content != client.LockoutMessage {
		t.Errorf("expected only the lockout message, got %+v", res.Appended)
	}
	if res.Failed {
		t.Error("lockout append is not a transient failure")
	}
	if !conv.QuotaExceeded() {
		t.Error("lockout flag cleared without a successful exchange")
	}
}

func TestSendErrorSentencesAsBotMessages(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantPhrase string
	}{
		{"not found", 404, `{"detail": "User not found"}`, "contact support"},
		{"server error", 500, `{"detail": "boom"}`, "technical difficulties"},
		{"unclassified", 418, `{"detail": "teapot"}`, "trouble processing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, st := newTestConversation(t, &backend{chatStatus: tt.status, chatBody: tt.body})
			ctx := context.Background()

			if err := conv.LoadBot(ctx); err != nil {
				t.Fatalf("LoadBot() failed: %v", err)
			}

			res, err := conv.Send(ctx, "hello")
			if err != nil {
				t.Fatalf("Send() failed: %v", err)
			}
			if !res.Failed {
				t.Fatal("expected failed result")
			}
			if res.QuotaExceeded {
				t.Error("non-quota failure set the lockout flag")
			}
			last := res.Appended[len(res.Appended)-1]
			if last.Type != store.MessageTypeBot || !strings.Contains(last.Content, tt.wantPhrase) {
				t.Errorf("expected bot error message containing %q, got %+v", tt.wantPhrase, last)
			}

			// Failures are persisted as chat content too.
			stored := st.LoadMessages(ctx, "bot-1")
			if len(stored) == 0 || stored[len(stored)-1].Content != last.Content {
				t.Errorf("error sentence not persisted: %+v", stored)
			}
		})
	}
}

func TestSendEmptyResponseFallback(t *testing.T) {
	conv, _ := newTestConversation(t, &backend{chatBody: `{"conversation_id": "conv-1"}`})
	ctx := context.Background()

	if err := conv.LoadBot(ctx); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	res, err := conv.Send(ctx, "hello")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if got := res.Appended[1].Content; got != client.FallbackResponse {
		t.Errorf("expected fallback response, got %q", got)
	}
}

func TestSendBeforeLoadBot(t *testing.T) {
	conv, _ := newTestConversation(t, &backend{})

	if _, err := conv.Send(context.Background(), "hello"); err != ErrBotNotLoaded {
		t.Fatalf("expected ErrBotNotLoaded, got %v", err)
	}
}

func TestPersistedHistoryStaysCapped(t *testing.T) {
	conv, st := newTestConversation(t, &backend{})
	ctx := context.Background()

	if err := conv.LoadBot(ctx); err != nil {
		t.Fatalf("LoadBot() failed: %v", err)
	}

	for i := range 12 {
		if _, err := conv.Send(ctx, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}

	stored := st.LoadMessages(ctx, "bot-1")
	if len(stored) != store.MaxStoredMessages {
		t.Errorf("stored %d messages, want %d", len(stored), store.MaxStoredMessages)
	}
	// In-memory transcript keeps the whole run.
	if len(conv.Messages()) != 24 {
		t.Errorf("in-memory transcript has %d messages, want 24", len(conv.Messages()))
	}
}
