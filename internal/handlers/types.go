package handlers

import (
	"net/http"

	"github.com/serroba/paygate-demo-go/internal/payment"
)

// ChatMessageRequest is the request for sending a chat message. The credit
// balance and payment token travel on the client, so every carrier the
// browser flow uses is accepted here.
type ChatMessageRequest struct {
	Credits     string `cookie:"message_credits"    doc:"Client-held credit balance"`
	TokenCookie string `cookie:"x402-payment-token" doc:"Persisted payment token"`
	TokenHeader string `header:"X-Payment-Token"    doc:"Payment token header"`
	TokenQuery  string `query:"paymentToken"        doc:"Payment token from a facilitator redirect"`
	Body        struct {
		Message string `doc:"The chat message" example:"Explain micropayments" json:"message" minLength:"1"`
	}
}

// ChatMessageBody is the chat response body. On success it carries the
// reply and the remaining balance; on payment-required it carries the
// gate's response instead.
type ChatMessageBody struct {
	Message        string           `json:"message,omitempty"`
	Credits        *int             `json:"credits,omitempty"`
	Error          string           `json:"error,omitempty"`
	RedirectURL    string           `json:"redirectUrl,omitempty"`
	PaymentContext *payment.Context `json:"paymentContext,omitempty"`
}

// ChatMessageResponse is the response for a chat message.
type ChatMessageResponse struct {
	Status  int
	Headers struct {
		SetCookie []*http.Cookie `doc:"Refreshed credit state" header:"Set-Cookie"`
		Location  string         `doc:"Paywall redirect when payment is required" header:"Location"`
	}
	Body ChatMessageBody
}

// GrantCreditsRequest is the request for the post-payment landing and
// verification endpoints.
type GrantCreditsRequest struct {
	TokenQuery  string `query:"paymentToken"        doc:"Payment token from a facilitator redirect"`
	TokenHeader string `header:"X-Payment-Token"    doc:"Payment token header"`
	TokenCookie string `cookie:"x402-payment-token" doc:"Persisted payment token"`
	Verify      string `header:"X-Verify"           doc:"When true, respond with JSON instead of redirecting"`
}

// GrantCreditsBody is the JSON form of a grant outcome.
type GrantCreditsBody struct {
	Success        bool             `json:"success,omitempty"`
	Credits        *int             `json:"credits,omitempty"`
	Error          string           `json:"error,omitempty"`
	RedirectURL    string           `json:"redirectUrl,omitempty"`
	PaymentContext *payment.Context `json:"paymentContext,omitempty"`
}

// GrantCreditsResponse is the response for a grant attempt: a redirect for
// the browser flow, JSON for the background-verify flow, or the gate's
// payment-required response.
type GrantCreditsResponse struct {
	Status  int
	Headers struct {
		SetCookie []*http.Cookie `doc:"Granted credit state" header:"Set-Cookie"`
		Location  string         `header:"Location"`
	}
	Body GrantCreditsBody
}

// CreateLinkRequest carries the link-creation form.
type CreateLinkRequest struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded" doc:"Form body with a url field"`
}

// CreateLinkResponse redirects to the result page with the generated code
// and the original URL as a fallback query parameter.
type CreateLinkResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// LookupLinkRequest is the request for resolving a short code.
type LookupLinkRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// LookupLinkResponse carries the original URL for a code.
type LookupLinkResponse struct {
	Body struct {
		Original string `doc:"The original URL" json:"original"`
	}
}

// RedirectLinkRequest is the request for following a short link.
type RedirectLinkRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectLinkResponse redirects to the stored original URL.
type RedirectLinkResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}
