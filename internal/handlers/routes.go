package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/middleware"
	"github.com/serroba/paygate-demo-go/internal/ratelimit"
)

// RegisterRoutes registers all API routes with their rate limit and
// paywall configuration.
func RegisterRoutes(api huma.API, chatHandler *ChatHandler, creditsHandler *CreditsHandler, linkHandler *LinkHandler) {
	// POST /api/chat - credit-gated chat message. The payment check is
	// inline in the handler (only consulted when the ledger is depleted),
	// so no paywall metadata here.
	huma.Register(api, huma.Operation{
		OperationID: "send-chat-message",
		Method:      http.MethodPost,
		Path:        "/api/chat",
		Summary:     "Send a chat message",
		Description: "Consumes one credit, or requires payment when the balance is depleted.",
		Tags:        []string{"Chat"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
					{Window: time.Hour, Max: 300},
				},
			},
		},
	}, chatHandler.SendMessage)

	// GET /api/chat - post-payment landing/verify for the chat page.
	huma.Register(api, huma.Operation{
		OperationID: "verify-chat-payment",
		Method:      http.MethodGet,
		Path:        "/api/chat",
		Summary:     "Verify a chat payment",
		Description: "Verifies a facilitator-issued token and grants credits.",
		Tags:        []string{"Chat"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
				},
			},
		},
	}, creditsHandler.VerifyChatPayment)

	// GET /api/buy-credits - explicit top-up flow.
	huma.Register(api, huma.Operation{
		OperationID: "buy-credits",
		Method:      http.MethodGet,
		Path:        "/api/buy-credits",
		Summary:     "Buy message credits",
		Description: "Requires payment and sets the credit balance to 5.",
		Tags:        []string{"Credits"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
				},
			},
		},
	}, creditsHandler.BuyCredits)

	// POST /protected/create - paywalled link creation.
	huma.Register(api, huma.Operation{
		OperationID: "create-short-link",
		Method:      http.MethodPost,
		Path:        "/protected/create",
		Summary:     "Create a short link",
		Description: "Creates a short link. Payment is enforced by the paywall middleware.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			middleware.PaywallMetadataKey: ResourceCreateLink,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
				},
			},
		},
	}, linkHandler.CreateLink)

	// GET /api/short/{code} - resolve a code without redirecting.
	huma.Register(api, huma.Operation{
		OperationID: "lookup-short-link",
		Method:      http.MethodGet,
		Path:        "/api/short/{code}",
		Summary:     "Look up a short link",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, linkHandler.LookupLink)

	// GET /r/{code} - follow a short link.
	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-link",
		Method:      http.MethodGet,
		Path:        "/r/{code}",
		Summary:     "Redirect to the original URL",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, linkHandler.RedirectLink)
}
