package store

import (
	"context"

	"github.com/serroba/paygate-demo-go/internal/analytics"
)

// Noop is an analytics.Store that discards everything. Used in tests.
type Noop struct{}

// NewNoop creates a discarding analytics store.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) SaveChatMessage(_ context.Context, _ *analytics.ChatMessageEvent) error {
	return nil
}

func (*Noop) SaveCreditsGranted(_ context.Context, _ *analytics.CreditsGrantedEvent) error {
	return nil
}

func (*Noop) SaveLinkCreated(_ context.Context, _ *analytics.LinkCreatedEvent) error {
	return nil
}

func (*Noop) SaveLinkAccessed(_ context.Context, _ *analytics.LinkAccessedEvent) error {
	return nil
}
