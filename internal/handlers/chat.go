// Package handlers composes the credit ledger, payment gate, short-link
// service, and the opaque backends into HTTP operations.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/analytics"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/chat"
	"github.com/serroba/paygate-demo-go/internal/credits"
	"github.com/serroba/paygate-demo-go/internal/messaging"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/request"
	"go.uber.org/zap"
)

// ChatHandler handles the credit-gated chat message flow.
type ChatHandler struct {
	gate           *payment.Gate
	completer      chat.Completer
	resolver       *appurl.Resolver
	publishMessage messaging.Publish[analytics.ChatMessageEvent]
	publishGranted messaging.Publish[analytics.CreditsGrantedEvent]
	logger         *zap.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(
	gate *payment.Gate,
	completer chat.Completer,
	resolver *appurl.Resolver,
	publishMessage messaging.Publish[analytics.ChatMessageEvent],
	publishGranted messaging.Publish[analytics.CreditsGrantedEvent],
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		gate:           gate,
		completer:      completer,
		resolver:       resolver,
		publishMessage: publishMessage,
		publishGranted: publishGranted,
		logger:         logger,
	}
}

// SendMessage handles a chat message. A funded ledger is charged one credit
// and the message proceeds directly; a depleted ledger consults the payment
// gate, which either blocks the request (response passed through verbatim)
// or grants a fresh balance of which this message consumes one.
//
// The credit is charged at the point of the request: a completion backend
// failure still consumes it and the user gets the fixed fallback reply.
// That charge-on-attempt policy is deliberate.
func (h *ChatHandler) SendMessage(ctx context.Context, in *ChatMessageRequest) (*ChatMessageResponse, error) {
	meta := request.MetaFromContext(ctx)
	ledger := credits.Parse(in.Credits)

	if ledger.Funded() {
		ledger = ledger.Consume()
	} else {
		req := buildPaymentRequest(h.resolver, meta, http.MethodPost, ResourceChat,
			in.TokenHeader, in.TokenCookie, in.TokenQuery)

		result, err := h.gate.Check(ctx, req, ResourceChat)
		if err != nil {
			h.logger.Error("payment check failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to process the request")
		}

		if !result.Allowed {
			return blockedChatResponse(result), nil
		}

		ledger = ledger.Grant().Consume()

		h.publishEvent(h.publishGranted(&analytics.CreditsGrantedEvent{
			Amount:    credits.GrantAmount,
			Source:    "chat",
			GrantedAt: time.Now(),
			ClientIP:  meta.ClientIP,
		}))
	}

	reply, err := h.completer.Complete(ctx, in.Body.Message)
	fallback := err != nil

	if fallback {
		h.logger.Error("completion failed", zap.Error(err))

		reply = chat.FallbackReply
	}

	h.publishEvent(h.publishMessage(&analytics.ChatMessageEvent{
		CreditsLeft: ledger.Balance(),
		Fallback:    fallback,
		SentAt:      time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}))

	balance := ledger.Balance()

	resp := &ChatMessageResponse{}
	resp.Headers.SetCookie = []*http.Cookie{ledger.Cookie()}
	resp.Body.Message = reply
	resp.Body.Credits = &balance

	return resp, nil
}

func (h *ChatHandler) publishEvent(err error) {
	if err != nil {
		h.logger.Error("failed to publish analytics event", zap.Error(err))
	}
}

// blockedChatResponse passes the gate's payment-required response through
// with status, redirect, and payment context intact.
func blockedChatResponse(result *payment.Result) *ChatMessageResponse {
	resp := &ChatMessageResponse{Status: result.Status}
	resp.Headers.Location = result.RedirectURL
	resp.Body.Error = "Payment required"
	resp.Body.RedirectURL = result.RedirectURL
	resp.Body.PaymentContext = result.Context

	return resp
}
