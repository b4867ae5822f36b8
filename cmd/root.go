// Package cmd wires the botharbor CLI: the terminal chat widget, the
// embed-hosting server, snippet generation, and local session inspection.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hasnain769/botharbor/internal/config"
	"github.com/hasnain769/botharbor/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "botharbor",
	Short: "BotHarbor chat widget and embed tooling",
	Long: `botharbor runs the BotHarbor chat widget in the terminal, hosts the
browser embed assets, and generates copy-paste embed snippets.

Running botharbor without a subcommand opens the chat widget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWidget(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the application config and builds its logger.
func loadConfig() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})
	return cfg, logger, nil
}
