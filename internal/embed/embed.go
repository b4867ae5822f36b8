// Package embed generates the browser-side embed artifacts: the per-bot
// loader script, the script-tag and iframe snippets, and the generic
// compatibility shim served at /embed.js.
package embed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"text/template"

	"github.com/hasnain769/botharbor/internal/config"
)

// FrameID is the fixed iframe element id. The loader uses it as the
// idempotency check: a page that includes the script twice still mounts a
// single widget.
const FrameID = "botharbor-chatbot-iframe"

//go:embed assets/embed.js
var shimScript []byte

// Shim returns the generic loader asset. Unlike the generated loader it
// carries no configuration; it reads window.BOTHARBOR_CONFIG or the script
// tag's data attributes at mount time.
func Shim() []byte { return shimScript }

// Options configures the generated embed artifacts.
type Options struct {
	BotID    string
	Theme    string
	Greeting string

	// WidgetURL is the page the iframe points at. Empty means the hosted
	// default.
	WidgetURL string
}

// Validate reports whether the options can produce an embed.
func (o Options) Validate() error {
	if o.BotID == "" {
		return config.ErrMissingBotID
	}
	if o.WidgetURL != "" {
		if _, err := url.ParseRequestURI(o.WidgetURL); err != nil {
			return fmt.Errorf("invalid widget url %q: %w", o.WidgetURL, err)
		}
	}
	return nil
}

func (o Options) widgetURL() string {
	if o.WidgetURL != "" {
		return o.WidgetURL
	}
	return config.DefaultWidgetURL
}

// widgetSrc builds the iframe source URL with the widget query parameters.
func (o Options) widgetSrc() string {
	params := url.Values{}
	params.Set("bot_id", o.BotID)
	theme := o.Theme
	if theme == "" {
		theme = config.DefaultTheme
	}
	params.Set("theme", theme)
	if o.Greeting != "" {
		params.Set("greeting", o.Greeting)
	}
	return o.widgetURL() + "?" + params.Encode()
}

var loaderTmpl = template.Must(template.New("loader").Parse(`(function () {
  var FRAME_ID = {{.FrameID}};
  var config = {{.Config}};
  var widgetURL = {{.WidgetURL}};

  function mountChatbot() {
    if (document.getElementById(FRAME_ID)) return;

    var params = new URLSearchParams({ bot_id: config.botId, theme: config.theme });
    if (config.greeting) params.set("greeting", config.greeting);

    var frame = document.createElement("iframe");
    frame.id = FRAME_ID;
    frame.src = widgetURL + "?" + params.toString();
    frame.style.position = "fixed";
    frame.style.bottom = "20px";
    frame.style.right = "20px";
    frame.style.width = "360px";
    frame.style.height = "480px";
    frame.style.border = "none";
    frame.style.borderRadius = "12px";
    frame.style.zIndex = "999999";

    document.body.appendChild(frame);
  }

  if (document.readyState === "complete") {
    setTimeout(mountChatbot, 0);
  } else {
    window.addEventListener("load", function () { setTimeout(mountChatbot, 0); });
  }
})();
`))

// LoaderScript renders the standalone per-bot loader. The configuration is
// inlined so the script works from any origin without data attributes.
func LoaderScript(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	theme := opts.Theme
	if theme == "" {
		theme = config.DefaultTheme
	}
	cfg, err := json.Marshal(map[string]string{
		"botId":    opts.BotID,
		"theme":    theme,
		"greeting": opts.Greeting,
	})
	if err != nil {
		return "", fmt.Errorf("encoding loader config: %w", err)
	}
	widgetURL, err := json.Marshal(opts.widgetURL())
	if err != nil {
		return "", fmt.Errorf("encoding widget url: %w", err)
	}
	frameID, _ := json.Marshal(FrameID)

	var b strings.Builder
	err = loaderTmpl.Execute(&b, map[string]string{
		"FrameID":   string(frameID),
		"Config":    string(cfg),
		"WidgetURL": string(widgetURL),
	})
	if err != nil {
		return "", fmt.Errorf("rendering loader: %w", err)
	}
	return b.String(), nil
}

// ScriptTagSnippet renders the copy-paste script tag for the hosted shim at
// scriptURL, carrying the configuration as data attributes.
func ScriptTagSnippet(opts Options, scriptURL string) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if scriptURL == "" {
		return "", fmt.Errorf("script url is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<script src=%q data-bot-id=%q`, scriptURL, html.EscapeString(opts.BotID))
	if opts.Theme != "" {
		fmt.Fprintf(&b, ` data-theme=%q`, html.EscapeString(opts.Theme))
	}
	if opts.Greeting != "" {
		fmt.Fprintf(&b, ` data-greeting=%q`, html.EscapeString(opts.Greeting))
	}
	b.WriteString(` defer></script>`)
	return b.String(), nil
}

// IframeSnippet renders the direct-iframe embed.
func IframeSnippet(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		`<iframe id=%q src=%q style="position: fixed; bottom: 20px; right: 20px; width: 360px; height: 480px; border: none; border-radius: 12px; z-index: 999999;"></iframe>`,
		FrameID, html.EscapeString(opts.widgetSrc()),
	), nil
}
