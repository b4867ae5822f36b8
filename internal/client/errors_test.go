package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"quota by status", &APIError{Status: 403}, KindQuota},
		{"quota by phrase", &APIError{Status: 400, Detail: "Message quota reached for this bot"}, KindQuota},
		{"quota by plan phrase", &APIError{Status: 400, Detail: "Please upgrade your plan to continue"}, KindQuota},
		{"not found by status", &APIError{Status: 404}, KindNotFound},
		{"not found by phrase", &APIError{Status: 400, Detail: "User not found"}, KindNotFound},
		{"server error", &APIError{Status: 500}, KindServer},
		{"wrapped api error", fmt.Errorf("sending chat request: %w", &APIError{Status: 403}), KindQuota},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"canceled", context.Canceled, KindTimeout},
		{"transport failure", &url.Error{Op: "Post", URL: "https://x", Err: errors.New("connection refused")}, KindNetwork},
		{"unclassified status", &APIError{Status: 418}, KindGeneric},
		{"plain error", errors.New("boom"), KindGeneric},
		{"nil", nil, KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserMessageFixedSentences(t *testing.T) {
	kinds := []ErrorKind{KindQuota, KindNotFound, KindServer, KindNetwork, KindTimeout, KindGeneric}

	seen := make(map[string]ErrorKind)
	for _, k := range kinds {
		msg := UserMessage(k)
		if msg == "" {
			t.Errorf("UserMessage(%v) is empty", k)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("kinds %v and %v share the sentence %q", prev, k, msg)
		}
		seen[msg] = k
	}

	if !strings.Contains(UserMessage(KindQuota), "message limit") {
		t.Errorf("quota sentence changed: %q", UserMessage(KindQuota))
	}
	if !strings.Contains(UserMessage(KindTimeout), "took too long") {
		t.Errorf("timeout sentence changed: %q", UserMessage(KindTimeout))
	}
}

func TestAPIErrorString(t *testing.T) {
	err := &APIError{Status: 403, Detail: "quota exceeded"}
	if got := err.Error(); !strings.Contains(got, "403") || !strings.Contains(got, "quota exceeded") {
		t.Errorf("Error() = %q", got)
	}

	bare := &APIError{Status: 502}
	if got := bare.Error(); !strings.Contains(got, "502") {
		t.Errorf("Error() = %q", got)
	}
}
