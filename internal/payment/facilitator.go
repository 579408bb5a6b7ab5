package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const facilitatorTimeout = 10 * time.Second

// FacilitatorVerifier verifies payment tokens against the external
// facilitator service over HTTP. Token validity is decided entirely by the
// facilitator; this client only relays and interprets allow/deny.
type FacilitatorVerifier struct {
	client  *http.Client
	baseURL string
	payTo   string
	network string
}

// NewFacilitatorVerifier creates a verifier for the facilitator at baseURL,
// settling to the payTo address on the given network.
func NewFacilitatorVerifier(baseURL, payTo, network string) *FacilitatorVerifier {
	return &FacilitatorVerifier{
		client:  &http.Client{Timeout: facilitatorTimeout},
		baseURL: baseURL,
		payTo:   payTo,
		network: network,
	}
}

type verifyPayload struct {
	Token    string `json:"token"`
	Resource string `json:"resource"`
	PayTo    string `json:"payTo"`
	Price    string `json:"price"`
	Network  string `json:"network"`
}

type verifyReply struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// Check verifies the request's token for one resource. A missing or
// rejected token yields a 402 block carrying a paywall redirect to the
// facilitator; facilitator transport failures are returned as errors for
// the handler boundary to map to a 500.
func (f *FacilitatorVerifier) Check(ctx context.Context, req Request, resource Resource, cfg RouteConfig) (*Result, error) {
	token := req.Token()
	if token == "" {
		return f.blocked(req, resource, cfg), nil
	}

	payload, err := json.Marshal(verifyPayload{
		Token:    token,
		Resource: resourceURL(req, resource),
		PayTo:    f.payTo,
		Price:    string(cfg.Price),
		Network:  f.network,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("facilitator verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facilitator verify: unexpected status %d", resp.StatusCode)
	}

	var reply verifyReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("facilitator verify: %w", err)
	}

	if !reply.Verified {
		return f.blocked(req, resource, cfg), nil
	}

	return Allow(), nil
}

// blocked builds the payment-required result: a 402 with a paywall
// redirect holding everything the facilitator needs to complete payment
// out-of-band and send the client back with a token.
func (f *FacilitatorVerifier) blocked(req Request, resource Resource, cfg RouteConfig) *Result {
	pc := &Context{
		Resource:    resourceURL(req, resource),
		Price:       string(cfg.Price),
		Network:     f.network,
		PayTo:       f.payTo,
		Description: cfg.Description,
		Nonce:       uuid.NewString(),
	}

	q := url.Values{}
	q.Set("resource", pc.Resource)
	q.Set("price", pc.Price)
	q.Set("network", pc.Network)
	q.Set("payTo", pc.PayTo)
	q.Set("nonce", pc.Nonce)

	if pc.Description != "" {
		q.Set("description", pc.Description)
	}

	if returnTo := req.URL.String(); returnTo != "" {
		q.Set("returnTo", returnTo)
	}

	return &Result{
		Status:      http.StatusPaymentRequired,
		RedirectURL: f.baseURL + "/pay?" + q.Encode(),
		Context:     pc,
	}
}

// resourceURL renders the resource as a full URL on the request's origin,
// falling back to the bare path when the origin is unknown.
func resourceURL(req Request, resource Resource) string {
	u := url.URL{
		Scheme: req.URL.Scheme,
		Host:   req.URL.Host,
		Path:   string(resource),
	}

	return u.String()
}
