package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/serroba/paygate-demo-go/internal/analytics"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/handlers"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCreditsHandler(verifier payment.Verifier) *handlers.CreditsHandler {
	return handlers.NewCreditsHandler(
		payment.NewGate(verifier, handlers.DefaultRoutes(), zap.NewNop()),
		appurl.NewResolver("https://demo.test"),
		noopPublish[analytics.CreditsGrantedEvent],
		zap.NewNop(),
	)
}

func grantContext() context.Context {
	return request.WithMeta(context.Background(), request.Meta{ClientIP: "203.0.113.7"})
}

func TestCreditsHandler_BuyCredits(t *testing.T) {
	t.Run("paid request grants credits and redirects to the chat page", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{acceptToken: "tok-1"})

		resp, err := handler.BuyCredits(grantContext(), &handlers.GrantCreditsRequest{TokenQuery: "tok-1"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "https://demo.test/chat", resp.Headers.Location)
		assert.Equal(t, "5", cookieValue(resp.Headers.SetCookie, "message_credits"))
		assert.Equal(t, "tok-1", cookieValue(resp.Headers.SetCookie, "x402-payment-token"))
	})

	t.Run("verify header produces a JSON outcome instead of a redirect", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{acceptToken: "tok-1"})

		resp, err := handler.BuyCredits(grantContext(), &handlers.GrantCreditsRequest{
			TokenHeader: "tok-1",
			Verify:      "true",
		})

		require.NoError(t, err)
		assert.Zero(t, resp.Status)
		assert.True(t, resp.Body.Success)
		require.NotNil(t, resp.Body.Credits)
		assert.Equal(t, 5, *resp.Body.Credits)
		assert.Empty(t, resp.Headers.Location)
	})

	t.Run("replaying a token tops up to the same balance", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{acceptToken: "tok-1"})
		in := &handlers.GrantCreditsRequest{TokenHeader: "tok-1"}

		first, err := handler.BuyCredits(grantContext(), in)
		require.NoError(t, err)

		second, err := handler.BuyCredits(grantContext(), in)
		require.NoError(t, err)

		assert.Equal(t, cookieValue(first.Headers.SetCookie, "message_credits"),
			cookieValue(second.Headers.SetCookie, "message_credits"))
	})

	t.Run("unpaid request is blocked with payment context", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{acceptToken: "tok-1"})

		resp, err := handler.BuyCredits(grantContext(), &handlers.GrantCreditsRequest{})

		require.NoError(t, err)
		assert.Equal(t, http.StatusPaymentRequired, resp.Status)
		assert.Equal(t, "Payment required", resp.Body.Error)
		require.NotNil(t, resp.Body.PaymentContext)
		assert.Equal(t, "/api/buy-credits", resp.Body.PaymentContext.Resource)
		assert.Empty(t, resp.Headers.SetCookie)
	})

	t.Run("verifier failure surfaces as a server error", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{err: errMock})

		_, err := handler.BuyCredits(grantContext(), &handlers.GrantCreditsRequest{})

		assert.Error(t, err)
	})
}

func TestCreditsHandler_VerifyChatPayment(t *testing.T) {
	t.Run("checks the chat resource", func(t *testing.T) {
		verifier := &mockVerifier{acceptToken: "tok-1"}
		handler := newCreditsHandler(verifier)

		resp, err := handler.VerifyChatPayment(grantContext(), &handlers.GrantCreditsRequest{
			TokenQuery: "tok-1",
			Verify:     "true",
		})

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		require.NotEmpty(t, verifier.checked)
		assert.Equal(t, handlers.ResourceChat, verifier.checked[0])
	})

	t.Run("token persisted in the cookie is accepted", func(t *testing.T) {
		handler := newCreditsHandler(&mockVerifier{acceptToken: "tok-c"})

		resp, err := handler.VerifyChatPayment(grantContext(), &handlers.GrantCreditsRequest{
			TokenCookie: "tok-c",
			Verify:      "true",
		})

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
	})
}
