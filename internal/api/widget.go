package api

import (
	"html/template"
	"net/http"

	"github.com/hasnain769/botharbor/internal/config"
)

// widgetTmpl is the iframe bootstrap page. A valid request echoes the
// resolved parameters and the command to attach the terminal widget; a
// request without a bot id renders the configuration error panel instead,
// mirroring the widget's own behavior.
var widgetTmpl = template.Must(template.New("widget").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>BotHarbor Chat</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2937; }
  .panel { border: 1px solid #d1d5db; border-radius: 12px; padding: 1.5rem; max-width: 28rem; }
  .error { border-color: #dc2626; color: #dc2626; }
  code { background: #f3f4f6; padding: 0.15rem 0.4rem; border-radius: 4px; }
</style>
</head>
<body>
{{- if .Error}}
<div class="panel error">
  <h1>Chat widget configuration error</h1>
  <p>{{.Error}}</p>
  <p>A <code>bot_id</code> query parameter is required.</p>
</div>
{{- else}}
<div class="panel">
  <h1>BotHarbor Chat</h1>
  <p>Bot <code>{{.BotID}}</code>, theme <code>{{.Theme}}</code>.</p>
  <p>Attach the terminal widget with:</p>
  <p><code>{{.Command}}</code></p>
</div>
{{- end}}
</body>
</html>
`))

type widgetPage struct {
	Error   string
	BotID   string
	Theme   string
	Command string
}

// handleWidget serves the bootstrap page the iframe points at.
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	params, err := config.ParseWidgetQuery(r.URL.Query())

	page := widgetPage{}
	status := http.StatusOK
	if err != nil {
		page.Error = err.Error()
		status = http.StatusBadRequest
	} else {
		page.BotID = params.BotID
		page.Theme = params.Theme
		page.Command = "botharbor widget --bot-id " + params.BotID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := widgetTmpl.Execute(w, page); err != nil {
		s.logger.Debug("failed to render widget page", "error", err)
	}
}
