package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/hasnain769/botharbor/internal/chat"
	"github.com/hasnain769/botharbor/internal/client"
	"github.com/hasnain769/botharbor/internal/config"
	"github.com/hasnain769/botharbor/internal/store"
	"github.com/hasnain769/botharbor/internal/tui"
)

var (
	widgetBotID    string
	widgetTheme    string
	widgetGreeting string
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Open the chat widget in the terminal",
	RunE:  runWidget,
}

func init() {
	registerWidgetFlags(widgetCmd)
	registerWidgetFlags(rootCmd)
	rootCmd.AddCommand(widgetCmd)
}

func registerWidgetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&widgetBotID, "bot-id", "", "bot identifier (required)")
	cmd.Flags().StringVar(&widgetTheme, "theme", config.DefaultTheme, "widget theme (default, dark, green)")
	cmd.Flags().StringVar(&widgetGreeting, "greeting", "", "override the bot's greeting message")
}

func runWidget(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	params, err := config.NewParams(widgetBotID, widgetTheme, widgetGreeting)
	if err != nil {
		// A missing bot id renders the configuration error panel rather
		// than aborting, matching the embedded widget's behavior.
		return runProgram(ctx, tui.NewConfigError(err))
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

	st := store.New(db.DB, logger)
	cl := client.New(cfg.APIBase, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, logger)
	conv := chat.New(params, st, cl, logger)

	model, err := tui.New(ctx, conv)
	if err != nil {
		return fmt.Errorf("creating widget: %w", err)
	}
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model tea.Model) error {
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("widget exited: %w", err)
	}
	return nil
}
