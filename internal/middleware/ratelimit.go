package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a huma middleware that applies the per-endpoint
// limits declared in operation metadata. Operations without metadata are
// not limited.
func RateLimiter(api huma.API, store ratelimit.Store, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg == nil || cfg.Disabled || len(cfg.Limits) == 0 {
			next(ctx)

			return
		}

		op := ctx.Operation()
		clientK := clientKey(ctx)

		for _, limit := range cfg.Limits {
			// Key combines client, route template, and window so each
			// limit tracks independently.
			key := fmt.Sprintf("%s:%s:%d", clientK, op.Path, limit.Window.Milliseconds())

			count, err := store.Record(ctx.Context(), key, limit.Window)
			if err != nil {
				logger.Error("rate limit check failed",
					zap.String("path", op.Path),
					zap.Error(err),
				)
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

				return
			}

			if count > limit.Max {
				logger.Warn("rate limit exceeded",
					zap.String("path", op.Path),
					zap.String("method", ctx.Method()),
					zap.Int64("count", count),
					zap.Int64("max", limit.Max),
					zap.Duration("window", limit.Window),
				)

				msg := fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
					count, limit.Max, limit.Window)
				_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

				return
			}
		}

		next(ctx)
	}
}

// clientKey generates a rate limiting key from the client IP and
// User-Agent.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}
