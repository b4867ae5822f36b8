// Package client talks to the BotHarbor chat API.
//
// The API is an opaque HTTP dependency with two endpoints: bot information
// (fetched once at widget load) and chat completion. Failures are classified
// into a small user-facing taxonomy; see errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each API call. The hosted widget had no timeout at
// all, which left the loading state stuck on a stalled network; a deadline
// plus the timeout error sentence is strictly better.
const DefaultTimeout = 30 * time.Second

// Client is a BotHarbor chat API client.
//
// Client is safe for concurrent use, though the widget itself only keeps a
// single request in flight.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client for the API at baseURL.
// A non-positive timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BotInformation fetches the bot descriptor and QA pairs for botID.
// Exactly one fetch attempt is made per widget load; the caller does not retry.
func (c *Client) BotInformation(ctx context.Context, botID string) (*BotInformation, error) {
	endpoint := c.baseURL + "/botInformation/" + url.PathEscape(botID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building bot information request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bot information: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	var body botInformationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding bot information: %w", err)
	}
	if !body.Success {
		detail := body.Message
		if detail == "" {
			detail = "bot information request was not successful"
		}
		return nil, &APIError{Status: resp.StatusCode, Detail: detail}
	}

	c.logger.Debug("bot information loaded", "bot_id", botID, "bot_name", body.Bot.Name)
	return &BotInformation{Bot: body.Bot, QAPairs: body.QAPairs}, nil
}

// Chat performs one chat completion call.
// Non-2xx responses and unreadable bodies come back as *APIError carrying the
// HTTP status, for classification by Classify.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
		c.logger.Debug("chat request failed", "status", resp.StatusCode, "detail", apiErr.Detail)
		return nil, apiErr
	}

	var body ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	return &body, nil
}

// decodeDetail extracts the error detail from a failed response body.
// Detail may be a plain string or structured; structured values are
// re-encoded as JSON so nothing is lost. Unreadable bodies yield "".
func decodeDetail(r io.Reader) string {
	var body chatErrorBody
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Detail == nil {
		return ""
	}
	if s, ok := body.Detail.(string); ok {
		return s
	}
	raw, err := json.Marshal(body.Detail)
	if err != nil {
		return ""
	}
	return string(raw)
}
