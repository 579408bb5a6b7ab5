package handlers

import (
	"net/http"
	"net/url"

	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/credits"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/request"
)

// Priced resources. ResourceChatPage is the page path facilitators have
// historically issued tokens for; it is accepted as an alias, never served.
const (
	ResourceChat       payment.Resource = "/api/chat"
	ResourceBuyCredits payment.Resource = "/api/buy-credits"
	ResourceCreateLink payment.Resource = "/protected/create"
	ResourceChatPage   payment.Resource = "/chat"
)

// DefaultRoutes prices every gated resource.
func DefaultRoutes() payment.Routes {
	return payment.Routes{
		ResourceChat: {
			Price:       "$0.01",
			Description: "AI chat message",
			Aliases:     []payment.Resource{ResourceChatPage},
		},
		ResourceBuyCredits: {
			Price:       "$0.01",
			Description: "5 Message Credits",
			Aliases:     []payment.Resource{ResourceChatPage},
		},
		ResourceCreateLink: {
			Price:       "$0.01",
			Description: "Create a short link",
		},
	}
}

// buildPaymentRequest assembles the gate's request view from the typed
// handler inputs and normalizes it against the public origin.
func buildPaymentRequest(
	resolver *appurl.Resolver,
	meta request.Meta,
	method string,
	resource payment.Resource,
	headerToken, cookieToken, queryToken string,
) payment.Request {
	req := payment.NewRequest(method, string(resource))

	if headerToken != "" {
		req.Header.Set(payment.TokenHeader, headerToken)
	}

	if cookieToken != "" {
		req.Header.Add("Cookie", (&http.Cookie{Name: credits.TokenCookieName, Value: cookieToken}).String())
	}

	if queryToken != "" {
		q := req.URL.Query()
		q.Set(payment.TokenQueryParam, queryToken)
		req.URL.RawQuery = q.Encode()
	}

	return payment.Normalize(req, resolver.Resolve(meta))
}

// chatPageURL is where successful grants send the browser.
func chatPageURL(resolver *appurl.Resolver, meta request.Meta) string {
	base := resolver.Resolve(meta)

	u, err := url.Parse(base)
	if err != nil {
		return base + "/chat"
	}

	u.Path = "/chat"

	return u.String()
}
