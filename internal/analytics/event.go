// Package analytics defines the events emitted by the API server and the
// store that persists them.
package analytics

import "time"

// Topics for the event stream.
const (
	TopicChatMessage    = "chat.message.sent"
	TopicCreditsGranted = "credits.granted"
	TopicLinkCreated    = "link.created"
	TopicLinkAccessed   = "link.accessed"
)

// ChatMessageEvent is emitted for every chat message that reached the
// completion backend, whether or not the backend succeeded.
type ChatMessageEvent struct {
	CreditsLeft int       `json:"creditsLeft"`
	Fallback    bool      `json:"fallback"`
	SentAt      time.Time `json:"sentAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// CreditsGrantedEvent is emitted when a payment pass refills a client's
// credit balance.
type CreditsGrantedEvent struct {
	Amount    int       `json:"amount"`
	Source    string    `json:"source"` // "chat", "chat-verify", or "buy-credits"
	GrantedAt time.Time `json:"grantedAt"`
	ClientIP  string    `json:"clientIp"`
}

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkAccessedEvent is emitted when a short link redirect is followed.
type LinkAccessedEvent struct {
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}
