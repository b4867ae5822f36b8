package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hasnain769/botharbor/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and clear locally stored conversations",
}

func init() {
	sessionsCmd.AddCommand(newSessionsListCmd())
	sessionsCmd.AddCommand(newSessionsClearCmd())
	rootCmd.AddCommand(sessionsCmd)
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored conversations per bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, st *store.Store) error {
				return runSessionsList(ctx, cmd, st)
			})
		},
	}
}

func newSessionsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <bot-id>",
		Short: "Delete the stored conversation for a bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st *store.Store) error {
				return runSessionsClear(ctx, cmd, st, args[0])
			})
		},
	}
}

// withStore opens the widget store for the duration of one command.
func withStore(fn func(context.Context, *store.Store) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("store close error", "error", closeErr)
		}
	}()
	if err := store.Migrate(db.DB); err != nil {
		return fmt.Errorf("migrating store: %w", err)
	}

	return fn(context.Background(), store.New(db.DB, logger))
}

func runSessionsList(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
	sessionID, err := st.SessionID(ctx)
	if err != nil {
		return fmt.Errorf("reading session id: %w", err)
	}

	conversations, err := st.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	cmd.Printf("Session: %s\n", sessionID)
	if len(conversations) == 0 {
		cmd.Println("No stored conversations.")
		return nil
	}

	cmd.Printf("%-24s %-36s %s\n", "BOT", "CONVERSATION", "MESSAGES")
	for _, c := range conversations {
		conversationID := c.ConversationID
		if conversationID == "" {
			conversationID = "-"
		}
		cmd.Printf("%-24s %-36s %d\n", c.BotID, conversationID, c.MessageCount)
	}
	return nil
}

func runSessionsClear(ctx context.Context, cmd *cobra.Command, st *store.Store, botID string) error {
	if err := st.Clear(ctx, botID); err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	cmd.Printf("Cleared stored conversation for bot %s\n", botID)
	return nil
}
