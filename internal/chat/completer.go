// Package chat wraps the opaque text-completion backend.
package chat

import "context"

// FallbackReply is returned to the user whenever the completion backend
// fails. Failures are swallowed at the handler boundary; there is no retry.
const FallbackReply = "Sorry, I could not process your request."

// Completer produces a text reply for a user message.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// StaticCompleter always answers with a fixed reply. Used for local
// development without an API key and as a test double.
type StaticCompleter struct {
	Reply string
}

func (s *StaticCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.Reply, nil
}
