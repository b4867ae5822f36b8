// Package chat holds the widget's conversation state and send semantics,
// independent of any UI.
//
// A Conversation owns the transcript for one bot: it restores persisted
// state, seeds the greeting, performs optimistic sends against the chat API,
// and turns failures into bot-authored chat messages so nothing fails
// silently. The UI layers rendering and input handling on top.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hasnain769/botharbor/internal/client"
	"github.com/hasnain769/botharbor/internal/config"
	"github.com/hasnain769/botharbor/internal/store"
)

// ErrBotNotLoaded indicates Send was called before a successful LoadBot.
var ErrBotNotLoaded = errors.New("bot information not loaded")

// greetingMessageID marks the seeded greeting message.
const greetingMessageID = "greeting"

// Conversation is the chat state for one bot on one machine.
//
// Conversation is not safe for concurrent use: the widget keeps a single
// send in flight at a time (the UI's loading flag), which is the only
// synchronization this type relies on.
type Conversation struct {
	params config.Params
	store  *store.Store
	client *client.Client
	logger *slog.Logger

	bot          *client.BotData
	systemPrompt string

	sessionID      string
	conversationID string
	messages       []store.Message
	quotaExceeded  bool
}

// New creates a Conversation for the bot named in params.
func New(params config.Params, st *store.Store, cl *client.Client, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{
		params: params,
		store:  st,
		client: cl,
		logger: logger,
	}
}

// LoadBot performs the one-per-run bot information fetch and restores
// persisted state. On failure the conversation stays inert: there is no
// retry, and Send refuses to run.
func (c *Conversation) LoadBot(ctx context.Context) error {
	sessionID, err := c.store.SessionID(ctx)
	if err != nil {
		return fmt.Errorf("resolving session id: %w", err)
	}
	c.sessionID = sessionID

	info, err := c.client.BotInformation(ctx, c.params.BotID)
	if err != nil {
		return fmt.Errorf("loading bot information: %w", err)
	}
	c.bot = &info.Bot
	c.systemPrompt = client.ComposeSystemPrompt(info.Bot, info.QAPairs)

	c.conversationID, err = c.store.ConversationID(ctx, c.params.BotID)
	if err != nil {
		return fmt.Errorf("restoring conversation id: %w", err)
	}

	c.messages = c.store.LoadMessages(ctx, c.params.BotID)
	if len(c.messages) == 0 {
		c.seedGreeting(ctx)
	}

	c.logger.Debug("conversation ready",
		"bot_id", c.params.BotID,
		"restored_messages", len(c.messages),
		"conversation_id", c.conversationID)
	return nil
}

// seedGreeting adds the first bot message: the greeting parameter when set,
// otherwise the backend-provided greeting. No greeting text, no message.
func (c *Conversation) seedGreeting(ctx context.Context) {
	text := c.params.Greeting
	if text == "" {
		text = c.bot.GreetingMessage
	}
	if text == "" {
		return
	}

	c.append(ctx, store.Message{
		ID:        greetingMessageID,
		Type:      store.MessageTypeBot,
		Content:   text,
		Timestamp: time.Now(),
	})
}

// SendResult reports the outcome of one Send.
type SendResult struct {
	// Appended are the messages added to the transcript, in order.
	Appended []store.Message

	// Failed reports that the exchange was classified as an error; the
	// fixed sentence is already in Appended. Drives the transient banner.
	Failed bool

	// QuotaExceeded is the lockout state after this send.
	QuotaExceeded bool
}

// Send performs one exchange: optimistic user append, one network call, bot
// (or error-sentence) append. While the quota lockout is active no network
// call is made at all; the fixed lockout sentence is appended instead, and
// only a later successful exchange clears the flag.
func (c *Conversation) Send(ctx context.Context, text string) (SendResult, error) {
	if c.bot == nil {
		return SendResult{}, ErrBotNotLoaded
	}

	if c.quotaExceeded {
		lockout := c.append(ctx, store.Message{
			ID:        fmt.Sprintf("quota_error_%d", time.Now().UnixMilli()),
			Type:      store.MessageTypeBot,
			Content:   client.LockoutMessage,
			Timestamp: time.Now(),
		})
		return SendResult{Appended: []store.Message{lockout}, QuotaExceeded: true}, nil
	}

	userMsg := c.append(ctx, store.Message{
		ID:        fmt.Sprintf("user_%d", time.Now().UnixMilli()),
		Type:      store.MessageTypeUser,
		Content:   text,
		Timestamp: time.Now(),
	})

	resp, err := c.client.Chat(ctx, client.ChatRequest{
		BotID:          c.params.BotID,
		BotName:        c.bot.Name,
		SystemPrompt:   c.systemPrompt,
		Message:        client.BuildMessage(c.messages, text),
		Model:          c.bot.Model,
		Temperature:    c.bot.Temperature,
		ConversationID: c.conversationID,
		CurrentMsg:     text,
	})
	if err != nil {
		kind := client.Classify(err)
		if kind == client.KindQuota {
			c.quotaExceeded = true
		}
		c.logger.Debug("send failed", "bot_id", c.params.BotID, "kind", kind, "error", err)

		errMsg := c.append(ctx, store.Message{
			ID:        fmt.Sprintf("error_%d", time.Now().UnixMilli()),
			Type:      store.MessageTypeBot,
			Content:   client.UserMessage(kind),
			Timestamp: time.Now(),
		})
		return SendResult{
			Appended:      []store.Message{userMsg, errMsg},
			Failed:        true,
			QuotaExceeded: c.quotaExceeded,
		}, nil
	}

	// First successful exchange wins the conversation id; it is never
	// overwritten afterward.
	if resp.ConversationID != "" && c.conversationID == "" {
		c.conversationID = resp.ConversationID
		if err := c.store.SetConversationID(ctx, c.params.BotID, resp.ConversationID); err != nil {
			c.logger.Warn("persisting conversation id failed", "bot_id", c.params.BotID, "error", err)
		}
	}

	content := resp.Response
	if content == "" {
		content = client.FallbackResponse
	}
	botMsg := c.append(ctx, store.Message{
		ID:        fmt.Sprintf("bot_%d", time.Now().UnixMilli()),
		Type:      store.MessageTypeBot,
		Content:   content,
		Timestamp: time.Now(),
	})

	c.quotaExceeded = false
	return SendResult{Appended: []store.Message{userMsg, botMsg}}, nil
}

// append adds a message to the transcript and persists the capped history.
// Persistence failures are logged, not surfaced: the rendered transcript is
// the source of truth for the rest of the run.
func (c *Conversation) append(ctx context.Context, m store.Message) store.Message {
	c.messages = append(c.messages, m)
	if err := c.store.SaveMessages(ctx, c.params.BotID, c.messages); err != nil {
		c.logger.Warn("persisting messages failed", "bot_id", c.params.BotID, "error", err)
	}
	return m
}

// Bot returns the loaded bot descriptor, or nil before LoadBot succeeds.
func (c *Conversation) Bot() *client.BotData { return c.bot }

// Messages returns the current transcript, oldest first.
func (c *Conversation) Messages() []store.Message { return c.messages }

// ConversationID returns the backend conversation id, or "" before the
// first successful exchange.
func (c *Conversation) ConversationID() string { return c.conversationID }

// QuotaExceeded reports whether the lockout is active.
func (c *Conversation) QuotaExceeded() bool { return c.quotaExceeded }

// Params returns the immutable widget parameters.
func (c *Conversation) Params() config.Params { return c.params }
