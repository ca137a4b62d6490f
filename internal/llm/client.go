// Package llm provides the chat-generation client used by the narrative
// engine, plus the small parsing adapters that turn free-form model output
// into labels and JSON payloads.
package llm

import (
	"context"
	"errors"
)

// Sentinel errors for generation calls.
var (
	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrNoMessages is returned when a chat call carries no messages.
	ErrNoMessages = errors.New("no messages provided")
)

// Message roles, mirroring the chat wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string
	Content string
}

// Client performs a single blocking generation call.
//
// Implementations may stream the response internally; the fully assembled
// text is returned once the stream completes. Every pipeline component
// treats a chat error as "no usable output" and degrades to its fallback,
// so implementations should not retry.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
