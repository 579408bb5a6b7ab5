// Package store provides analytics.Store implementations.
package store

import (
	"context"

	"github.com/serroba/paygate-demo-go/internal/analytics"
	"go.uber.org/zap"
)

// ZapLog is an analytics.Store that writes events to the structured log.
// This is the consumer's default sink for the demo deployment.
type ZapLog struct {
	logger *zap.Logger
}

// NewZapLog creates a log-backed analytics store.
func NewZapLog(logger *zap.Logger) *ZapLog {
	return &ZapLog{logger: logger}
}

func (z *ZapLog) SaveChatMessage(_ context.Context, event *analytics.ChatMessageEvent) error {
	z.logger.Info("chat message event",
		zap.Int("creditsLeft", event.CreditsLeft),
		zap.Bool("fallback", event.Fallback),
		zap.Time("sentAt", event.SentAt),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (z *ZapLog) SaveCreditsGranted(_ context.Context, event *analytics.CreditsGrantedEvent) error {
	z.logger.Info("credits granted event",
		zap.Int("amount", event.Amount),
		zap.String("source", event.Source),
		zap.Time("grantedAt", event.GrantedAt),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (z *ZapLog) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	z.logger.Info("link created event",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (z *ZapLog) SaveLinkAccessed(_ context.Context, event *analytics.LinkAccessedEvent) error {
	z.logger.Info("link accessed event",
		zap.String("code", event.Code),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
