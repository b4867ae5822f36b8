package api

import (
	"errors"
	"net/http"

	"github.com/hasnain769/botharbor/internal/config"
	"github.com/hasnain769/botharbor/internal/embed"
)

const scriptContentType = "text/javascript; charset=utf-8"

// handleShim serves the generic loader asset. It carries no configuration;
// the including page supplies it via BOTHARBOR_CONFIG or data attributes.
func (s *Server) handleShim(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", scriptContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(embed.Shim()); err != nil {
		s.logger.Debug("failed to write shim", "error", err)
	}
}

// handleSnippet serves a per-bot generated loader script. The configuration
// is baked in, so the result works without data attributes.
func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := embed.Options{
		BotID:     query.Get("bot_id"),
		Theme:     query.Get("theme"),
		Greeting:  query.Get("greeting"),
		WidgetURL: s.cfg.WidgetURL,
	}

	script, err := embed.LoaderScript(opts)
	if err != nil {
		if errors.Is(err, config.ErrMissingBotID) {
			writeError(w, http.StatusBadRequest, "missing_bot_id", "bot_id query parameter is required")
			return
		}
		s.logger.Error("loader generation failed", "bot_id", opts.BotID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to generate loader")
		return
	}

	w.Header().Set("Content-Type", scriptContentType)
	if _, err := w.Write([]byte(script)); err != nil {
		s.logger.Debug("failed to write snippet", "error", err)
	}
}
