package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	cmd.Printf("botharbor %s\n", AppVersion)
	cmd.Printf("Build Time: %s\n", BuildTime)
	cmd.Printf("Git Commit: %s\n", GitCommit)

	cfg, _, err := loadConfig()
	if err != nil {
		// Version output should not fail on a broken config file.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}

	cmd.Println()
	cmd.Println("Configuration:")
	cmd.Printf("  API base: %s\n", cfg.APIBase)
	cmd.Printf("  Widget URL: %s\n", cfg.WidgetURL)
	cmd.Printf("  Data directory: %s\n", cfg.DataDir)
	return nil
}
