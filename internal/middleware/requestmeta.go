// Package middleware provides the huma middleware stack: request metadata
// capture, rate limiting, and the payment paywall.
package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/paygate-demo-go/internal/request"
)

// RequestMeta captures client IP, user agent, referrer, a request ID, and
// the host/forwarded headers needed for public-origin resolution, and puts
// them on the request context.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := request.Meta{
			RequestID:      uuid.NewString(),
			ClientIP:       clientIP(ctx),
			UserAgent:      ctx.Header("User-Agent"),
			Referrer:       ctx.Header("Referer"),
			Host:           ctx.Host(),
			ForwardedHost:  ctx.Header("X-Forwarded-Host"),
			ForwardedProto: ctx.Header("X-Forwarded-Proto"),
		}

		newCtx := request.WithMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
