package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/middleware"
	"github.com/serroba/paygate-demo-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockLimitStore counts requests per key.
type mockLimitStore struct {
	counts map[string]int64
	err    error
}

func newMockLimitStore() *mockLimitStore {
	return &mockLimitStore{counts: make(map[string]int64)}
}

func (m *mockLimitStore) Record(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}

	m.counts[key]++

	return m.counts[key], nil
}

func limitedOperation(maxRequests int64) *huma.Operation {
	return &huma.Operation{
		Path: "/test",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: maxRequests},
				},
			},
		},
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows request when under limit", func(t *testing.T) {
		mw := middleware.RateLimiter(newTestAPI(t), newMockLimitStore(), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.headers["User-Agent"] = testUserAgent
		ctx.operation = limitedOperation(2)

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "next should be called when allowed")
	})

	t.Run("returns 429 when over limit", func(t *testing.T) {
		store := newMockLimitStore()
		mw := middleware.RateLimiter(newTestAPI(t), store, zap.NewNop())
		op := limitedOperation(1)

		first := newMockHumaContext()
		first.host = testHostAddr
		first.headers["User-Agent"] = testUserAgent
		first.operation = op

		mw(first, func(_ huma.Context) {})

		second := newMockHumaContext()
		second.host = testHostAddr
		second.headers["User-Agent"] = testUserAgent
		second.operation = op

		nextCalled := false

		mw(second, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "next should not be called when rate limited")
		assert.Equal(t, 429, second.statusCode)
		assert.Contains(t, string(second.written), "rate limit exceeded")
	})

	t.Run("skips operations without rate limit metadata", func(t *testing.T) {
		store := newMockLimitStore()
		mw := middleware.RateLimiter(newTestAPI(t), store, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = &huma.Operation{Path: "/open"}

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Empty(t, store.counts)
	})

	t.Run("skips when disabled via metadata", func(t *testing.T) {
		store := newMockLimitStore()
		mw := middleware.RateLimiter(newTestAPI(t), store, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = &huma.Operation{
			Path: "/test",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
			},
		}

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Empty(t, store.counts)
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		store := newMockLimitStore()
		store.err = errors.New("store error")
		mw := middleware.RateLimiter(newTestAPI(t), store, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = limitedOperation(10)

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 500, ctx.statusCode)
	})

	t.Run("different user agents track independently", func(t *testing.T) {
		store := newMockLimitStore()
		mw := middleware.RateLimiter(newTestAPI(t), store, zap.NewNop())
		op := limitedOperation(1)

		first := newMockHumaContext()
		first.host = testHostAddr
		first.headers["User-Agent"] = "AgentA/1.0"
		first.operation = op

		mw(first, func(_ huma.Context) {})

		second := newMockHumaContext()
		second.host = testHostAddr
		second.headers["User-Agent"] = "AgentB/2.0"
		second.operation = op

		nextCalled := false

		mw(second, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "a different client should not share the limit")
		assert.Len(t, store.counts, 2)
	})
}
