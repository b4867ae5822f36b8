package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// APIError is a failed chat API call, carrying the HTTP status when one was
// received and whatever detail the error body held.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("chat API error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("chat API error (status %d)", e.Status)
}

// ErrorKind buckets a failure into the widget's user-facing taxonomy.
// Every kind maps to exactly one fixed sentence; see UserMessage.
type ErrorKind int

const (
	// KindGeneric is the fallback for anything unclassified.
	KindGeneric ErrorKind = iota
	// KindQuota is a backend message-volume limit (HTTP 403 or quota phrasing).
	KindQuota
	// KindNotFound is a missing bot or user (HTTP 404 or "User not found").
	KindNotFound
	// KindServer is a backend failure (HTTP 500).
	KindServer
	// KindNetwork is a transport-level failure before any HTTP status arrived.
	KindNetwork
	// KindTimeout is a deadline or cancellation while waiting on the backend.
	KindTimeout
)

// Fixed user-facing copy. Failures surface as bot-authored chat messages,
// so these read in the bot's voice.
const (
	quotaMessage    = "I've reached my message limit for now. Please try again later or contact support for more messages."
	notFoundMessage = "Sorry, I couldn't find the bot configuration. Please contact support."
	serverMessage   = "I'm experiencing technical difficulties. Please try again in a moment."
	networkMessage  = "I'm having trouble connecting to the server. Please check your internet connection and try again."
	timeoutMessage  = "The request took too long to process. Please try again."
	genericMessage  = "Sorry, I'm having trouble processing your message. Please try again."
)

// LockoutMessage is appended instead of sending while quota lockout is active.
const LockoutMessage = "I've reached my message limit. Please try again later or contact support for more messages."

// FallbackResponse replaces a successful reply whose body carried no text.
const FallbackResponse = "Sorry, I couldn't process your message."

// quotaPhrases are backend error texts that signal quota exhaustion even
// without a 403 status.
var quotaPhrases = []string{
	"quota reached",
	"quota exceeded",
	"Message quota reached",
	"upgrade your plan",
}

// Classify buckets err into the user-facing taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindGeneric
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 403 || containsAny(apiErr.Detail, quotaPhrases):
			return KindQuota
		case apiErr.Status == 404 || strings.Contains(apiErr.Detail, "User not found"):
			return KindNotFound
		case apiErr.Status == 500:
			return KindServer
		}
		return KindGeneric
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}

	return KindGeneric
}

// UserMessage returns the fixed sentence for an error kind.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case KindQuota:
		return quotaMessage
	case KindNotFound:
		return notFoundMessage
	case KindServer:
		return serverMessage
	case KindNetwork:
		return networkMessage
	case KindTimeout:
		return timeoutMessage
	default:
		return genericMessage
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
