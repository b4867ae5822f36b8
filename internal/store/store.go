// Package store persists widget state in a local SQLite database.
//
// It is the durable, per-machine equivalent of the browser storage the hosted
// widget uses: one session identifier shared by all bots, one conversation
// identifier per bot, and a capped history of recent messages per bot.
// The store performs no network I/O.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// MaxStoredMessages caps the persisted history per bot.
const MaxStoredMessages = 10

// sessionKey is the settings key holding the browser-equivalent session id.
const sessionKey = "session_id"

// Message types.
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// Message is one chat message, immutable once created.
type Message struct {
	ID        string
	Type      string // "user" or "bot"
	Content   string
	Timestamp time.Time
}

// ConversationInfo summarizes the stored state for one bot.
type ConversationInfo struct {
	BotID          string
	ConversationID string
	MessageCount   int
	LastActivity   time.Time
}

// Store provides key-value operations over the widget database.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store over an opened database.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// SessionID returns the machine-wide session identifier, creating and
// persisting "session_<unix-millis>" on first use. Idempotent across calls.
func (s *Store) SessionID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", sessionKey).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reading session id: %w", err)
	}

	id = fmt.Sprintf("session_%d", time.Now().UnixMilli())
	// INSERT OR IGNORE + re-read keeps concurrent first calls agreeing on one id.
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", sessionKey, id); err != nil {
		return "", fmt.Errorf("persisting session id: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", sessionKey).Scan(&id); err != nil {
		return "", fmt.Errorf("re-reading session id: %w", err)
	}
	return id, nil
}

// ConversationID returns the stored conversation identifier for botID,
// or "" when none has been assigned yet.
func (s *Store) ConversationID(ctx context.Context, botID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT conversation_id FROM conversations WHERE bot_id = ?", botID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading conversation id: %w", err)
	}
	return id, nil
}

// SetConversationID stores the conversation identifier for botID.
// Set-once semantics (first successful exchange wins) are enforced by the
// caller, not by this layer.
func (s *Store) SetConversationID(ctx context.Context, botID, conversationID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (bot_id, conversation_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(bot_id) DO UPDATE SET conversation_id = excluded.conversation_id`,
		botID, conversationID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing conversation id: %w", err)
	}
	return nil
}

// SaveMessages replaces the stored history for botID with the most recent
// MaxStoredMessages entries of msgs, insertion-ordered.
func (s *Store) SaveMessages(ctx context.Context, botID string, msgs []Message) error {
	if len(msgs) > MaxStoredMessages {
		msgs = msgs[len(msgs)-MaxStoredMessages:]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE bot_id = ?", botID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}

	for i, m := range msgs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO messages (bot_id, position, id, type, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			botID, i, m.ID, m.Type, m.Content, m.Timestamp.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("inserting message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing messages: %w", err)
	}
	return nil
}

// LoadMessages returns the stored history for botID, oldest first.
// Corrupt or unreadable state yields an empty history, never an error:
// a widget that cannot restore its transcript still has to come up.
func (s *Store) LoadMessages(ctx context.Context, botID string) []Message {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, content, created_at FROM messages WHERE bot_id = ? ORDER BY position",
		botID)
	if err != nil {
		s.logger.Warn("loading messages failed, starting empty", "bot_id", botID, "error", err)
		return nil
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Type, &m.Content, &createdAt); err != nil {
			s.logger.Warn("scanning message failed, starting empty", "bot_id", botID, "error", err)
			return nil
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			s.logger.Warn("parsing message timestamp failed, starting empty", "bot_id", botID, "error", err)
			return nil
		}
		m.Timestamp = ts
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("iterating messages failed, starting empty", "bot_id", botID, "error", err)
		return nil
	}
	return msgs
}

// Conversations lists the bots with stored state, most recently active first.
func (s *Store) Conversations(ctx context.Context) ([]ConversationInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.bot_id,
		       COALESCE(c.conversation_id, ''),
		       COUNT(*),
		       MAX(m.created_at)
		FROM messages m
		LEFT JOIN conversations c ON c.bot_id = m.bot_id
		GROUP BY m.bot_id
		ORDER BY MAX(m.created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var infos []ConversationInfo
	for rows.Next() {
		var info ConversationInfo
		var lastActivity string
		if err := rows.Scan(&info.BotID, &info.ConversationID, &info.MessageCount, &lastActivity); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, lastActivity); err == nil {
			info.LastActivity = ts
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return infos, nil
}

// Clear removes all stored state for botID: history and conversation id.
// Idempotent; clearing an unknown bot is not an error.
func (s *Store) Clear(ctx context.Context, botID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE bot_id = ?", botID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations WHERE bot_id = ?", botID); err != nil {
		return fmt.Errorf("clearing conversation id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}
