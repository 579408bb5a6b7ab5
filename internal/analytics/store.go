package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveChatMessage(ctx context.Context, event *ChatMessageEvent) error
	SaveCreditsGranted(ctx context.Context, event *CreditsGrantedEvent) error
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error
}
