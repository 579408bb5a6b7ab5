package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/analytics"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/credits"
	"github.com/serroba/paygate-demo-go/internal/messaging"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/request"
	"go.uber.org/zap"
)

// CreditsHandler handles the credit grant endpoints: the explicit buy flow
// and the post-payment verify/landing flow.
type CreditsHandler struct {
	gate           *payment.Gate
	resolver       *appurl.Resolver
	publishGranted messaging.Publish[analytics.CreditsGrantedEvent]
	logger         *zap.Logger
}

// NewCreditsHandler creates a credits handler.
func NewCreditsHandler(
	gate *payment.Gate,
	resolver *appurl.Resolver,
	publishGranted messaging.Publish[analytics.CreditsGrantedEvent],
	logger *zap.Logger,
) *CreditsHandler {
	return &CreditsHandler{
		gate:           gate,
		resolver:       resolver,
		publishGranted: publishGranted,
		logger:         logger,
	}
}

// BuyCredits handles the explicit top-up flow: the UI links straight here,
// and the facilitator redirects back here with a token.
func (h *CreditsHandler) BuyCredits(ctx context.Context, in *GrantCreditsRequest) (*GrantCreditsResponse, error) {
	return h.grant(ctx, in, ResourceBuyCredits, "buy-credits")
}

// VerifyChatPayment handles the chat page's post-payment landing: the page
// forwards the facilitator's token here, in the background when the
// X-Verify header is set.
func (h *CreditsHandler) VerifyChatPayment(ctx context.Context, in *GrantCreditsRequest) (*GrantCreditsResponse, error) {
	return h.grant(ctx, in, ResourceChat, "chat-verify")
}

// grant runs the gate unconditionally and on a pass sets the balance to
// exactly the grant amount: a top-up to a constant, not an addition, so
// replaying the same token is harmless.
func (h *CreditsHandler) grant(ctx context.Context, in *GrantCreditsRequest, resource payment.Resource, source string) (*GrantCreditsResponse, error) {
	meta := request.MetaFromContext(ctx)

	req := buildPaymentRequest(h.resolver, meta, http.MethodGet, resource,
		in.TokenHeader, in.TokenCookie, in.TokenQuery)

	result, err := h.gate.Check(ctx, req, resource)
	if err != nil {
		h.logger.Error("payment check failed",
			zap.String("resource", string(resource)),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("internal server error")
	}

	if !result.Allowed {
		resp := &GrantCreditsResponse{Status: result.Status}
		resp.Headers.Location = result.RedirectURL
		resp.Body.Error = "Payment required"
		resp.Body.RedirectURL = result.RedirectURL
		resp.Body.PaymentContext = result.Context

		return resp, nil
	}

	ledger := credits.Ledger{}.Grant()

	cookies := []*http.Cookie{ledger.Cookie()}
	if token := req.Token(); token != "" {
		cookies = append(cookies, credits.TokenCookie(token))
	}

	if err := h.publishGranted(&analytics.CreditsGrantedEvent{
		Amount:    credits.GrantAmount,
		Source:    source,
		GrantedAt: time.Now(),
		ClientIP:  meta.ClientIP,
	}); err != nil {
		h.logger.Error("failed to publish analytics event", zap.Error(err))
	}

	resp := &GrantCreditsResponse{}
	resp.Headers.SetCookie = cookies

	if strings.EqualFold(in.Verify, "true") {
		balance := ledger.Balance()
		resp.Body.Success = true
		resp.Body.Credits = &balance

		return resp, nil
	}

	resp.Status = http.StatusFound
	resp.Headers.Location = chatPageURL(h.resolver, meta)

	return resp, nil
}
