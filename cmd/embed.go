package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/hasnain769/botharbor/internal/embed"
)

var (
	embedBotID    string
	embedTheme    string
	embedGreeting string
	embedFormat   string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Print embed snippets for a bot",
	Long: `embed prints the copy-paste embed snippet for a bot.

Formats:
  tag     script tag pointing at the hosted /embed.js shim (default)
  script  standalone loader script with the configuration inlined
  iframe  direct iframe element`,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVar(&embedBotID, "bot-id", "", "bot identifier (required)")
	embedCmd.Flags().StringVar(&embedTheme, "theme", "", "widget theme (default, dark, green)")
	embedCmd.Flags().StringVar(&embedGreeting, "greeting", "", "override the bot's greeting message")
	embedCmd.Flags().StringVar(&embedFormat, "format", "tag", "snippet format: tag, script or iframe")
	_ = embedCmd.MarkFlagRequired("bot-id")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := embed.Options{
		BotID:     embedBotID,
		Theme:     embedTheme,
		Greeting:  embedGreeting,
		WidgetURL: cfg.WidgetURL,
	}

	var snippet string
	switch embedFormat {
	case "tag":
		snippet, err = embed.ScriptTagSnippet(opts, shimURL(cfg.WidgetURL))
	case "script":
		snippet, err = embed.LoaderScript(opts)
	case "iframe":
		snippet, err = embed.IframeSnippet(opts)
	default:
		return fmt.Errorf("unknown format %q (want tag, script or iframe)", embedFormat)
	}
	if err != nil {
		return fmt.Errorf("generating snippet: %w", err)
	}

	cmd.Println(snippet)
	return nil
}

// shimURL derives the hosted /embed.js location from the widget page URL.
func shimURL(widgetURL string) string {
	u, err := url.Parse(widgetURL)
	if err != nil {
		return widgetURL
	}
	u.Path = "/embed.js"
	u.RawQuery = ""
	return u.String()
}
