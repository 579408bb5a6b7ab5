package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/serroba/paygate-demo-go/internal/analytics"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/handlers"
	"github.com/serroba/paygate-demo-go/internal/request"
	"github.com/serroba/paygate-demo-go/internal/shortlink"
	"github.com/serroba/paygate-demo-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLinkHandler(t *testing.T) *handlers.LinkHandler {
	t.Helper()

	gen, err := shortlink.NewGenerator(shortlink.DefaultCodeLength)
	require.NoError(t, err)

	fallback, err := shortlink.NewGenerator(shortlink.FallbackCodeLength)
	require.NoError(t, err)

	return handlers.NewLinkHandler(
		shortlink.NewService(store.NewMemoryStore(), gen, fallback),
		appurl.NewResolver("https://demo.test"),
		noopPublish[analytics.LinkCreatedEvent],
		noopPublish[analytics.LinkAccessedEvent],
		zap.NewNop(),
	)
}

func linkContext() context.Context {
	return request.WithMeta(context.Background(), request.Meta{
		ClientIP:  "203.0.113.7",
		UserAgent: "test-agent",
		Referrer:  "https://referrer.test",
	})
}

func TestLinkHandler_CreateLink(t *testing.T) {
	t.Run("creates a link and redirects to the result page", func(t *testing.T) {
		handler := newLinkHandler(t)

		form := url.Values{"url": {"https://example.com/some/long/path"}}
		resp, err := handler.CreateLink(linkContext(), &handlers.CreateLinkRequest{
			RawBody: []byte(form.Encode()),
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.Status)
		assert.True(t, strings.HasPrefix(resp.Headers.Location, "https://demo.test/protected/result?code="))

		loc, err := url.Parse(resp.Headers.Location)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/some/long/path", loc.Query().Get("u"))

		code := loc.Query().Get("code")
		require.Len(t, code, shortlink.DefaultCodeLength)

		lookup, err := handler.LookupLink(linkContext(), &handlers.LookupLinkRequest{Code: code})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/some/long/path", lookup.Body.Original)
	})

	t.Run("rejects a missing url field", func(t *testing.T) {
		handler := newLinkHandler(t)

		_, err := handler.CreateLink(linkContext(), &handlers.CreateLinkRequest{
			RawBody: []byte("other=value"),
		})

		assert.ErrorContains(t, err, "missing url")
	})

	t.Run("rejects a blank url field", func(t *testing.T) {
		handler := newLinkHandler(t)

		_, err := handler.CreateLink(linkContext(), &handlers.CreateLinkRequest{
			RawBody: []byte("url=%20%20"),
		})

		assert.ErrorContains(t, err, "missing url")
	})

	t.Run("rejects a malformed form body", func(t *testing.T) {
		handler := newLinkHandler(t)

		_, err := handler.CreateLink(linkContext(), &handlers.CreateLinkRequest{
			RawBody: []byte("url=%zz"),
		})

		assert.ErrorContains(t, err, "invalid form body")
	})
}

func TestLinkHandler_RedirectLink(t *testing.T) {
	t.Run("redirects to the original URL and publishes an access event", func(t *testing.T) {
		gen, err := shortlink.NewGenerator(shortlink.DefaultCodeLength)
		require.NoError(t, err)

		fallback, err := shortlink.NewGenerator(shortlink.FallbackCodeLength)
		require.NoError(t, err)

		service := shortlink.NewService(store.NewMemoryStore(), gen, fallback)
		recorder := &recordPublish[analytics.LinkAccessedEvent]{}

		handler := handlers.NewLinkHandler(
			service,
			appurl.NewResolver("https://demo.test"),
			noopPublish[analytics.LinkCreatedEvent],
			recorder.publish,
			zap.NewNop(),
		)

		link, err := service.Create(context.Background(), "https://example.com")
		require.NoError(t, err)

		resp, err := handler.RedirectLink(linkContext(), &handlers.RedirectLinkRequest{Code: link.Code})

		require.NoError(t, err)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.Status)
		assert.Equal(t, "https://example.com", resp.Headers.Location)
		require.Len(t, recorder.events, 1)
		assert.Equal(t, link.Code, recorder.events[0].Code)
		assert.Equal(t, "https://referrer.test", recorder.events[0].Referrer)
	})

	t.Run("unknown code is a not found error", func(t *testing.T) {
		handler := newLinkHandler(t)

		_, err := handler.RedirectLink(linkContext(), &handlers.RedirectLinkRequest{Code: "nosuch"})

		assert.ErrorContains(t, err, "not found")
	})

	t.Run("blank code is rejected", func(t *testing.T) {
		handler := newLinkHandler(t)

		_, err := handler.LookupLink(linkContext(), &handlers.LookupLinkRequest{Code: "   "})

		assert.ErrorContains(t, err, "missing code")
	})
}
