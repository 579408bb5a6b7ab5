// Package payment decides whether a priced request may proceed. It wraps an
// external payment facilitator behind the Verifier interface: this package
// threads requests through and inspects the outcome, it never validates
// payment proofs itself.
package payment

import (
	"context"
	"net/http"
	"net/url"
)

const (
	// TokenHeader carries the payment token on a request.
	TokenHeader = "X-Payment-Token"
	// TokenQueryParam is the query-parameter fallback used by facilitator
	// redirects, which cannot set request headers.
	TokenQueryParam = "paymentToken"
)

// Resource identifies a priced resource by its canonical path.
type Resource string

// Price is a human-readable price tag, e.g. "$0.01".
type Price string

// RouteConfig prices a single resource.
type RouteConfig struct {
	Price       Price
	Description string

	// Aliases lists additional resource paths whose tokens are accepted
	// for this resource, tolerating historical redirect targets. Kept as
	// configuration so new aliases never require handler changes.
	Aliases []Resource
}

// Routes maps each priced resource to its configuration.
type Routes map[Resource]RouteConfig

// Request is a minimal immutable view of an inbound HTTP request, carrying
// exactly what payment verification needs.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// NewRequest creates a request for the given method and path with empty
// headers. Origin is filled in later by Normalize.
func NewRequest(method, path string) Request {
	return Request{
		Method: method,
		URL:    &url.URL{Path: path},
		Header: http.Header{},
	}
}

// Clone returns a deep copy; Request values handed to verifiers are never
// mutated in place.
func (r Request) Clone() Request {
	u := *r.URL

	return Request{
		Method: r.Method,
		URL:    &u,
		Header: r.Header.Clone(),
	}
}

// Token extracts the payment token from the request: the token header
// first, then the persisted token cookie.
func (r Request) Token() string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}

	// http.Request does the cookie-header parsing for us.
	cookie, err := (&http.Request{Header: r.Header}).Cookie("x402-payment-token")
	if err != nil {
		return ""
	}

	return cookie.Value
}

// Context describes an unpaid resource to the client, with enough detail to
// complete payment out-of-band at the facilitator.
type Context struct {
	Resource    string `json:"resource"`
	Price       string `json:"price"`
	Network     string `json:"network"`
	PayTo       string `json:"payTo"`
	Description string `json:"description,omitempty"`
	Nonce       string `json:"nonce"`
}

// Result is the outcome of a payment check: either the request may proceed,
// or it is blocked with a payment-required response to pass through
// verbatim.
type Result struct {
	Allowed     bool
	Status      int
	RedirectURL string
	Context     *Context
}

// Allow returns a passing result.
func Allow() *Result {
	return &Result{Allowed: true}
}

// Verifier checks a request against one priced resource.
type Verifier interface {
	Check(ctx context.Context, req Request, resource Resource, cfg RouteConfig) (*Result, error)
}
