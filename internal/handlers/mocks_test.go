package handlers_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/serroba/paygate-demo-go/internal/payment"
)

var errMock = errors.New("mock error")

// mockVerifier accepts requests carrying the configured token and blocks
// everything else with a canned payment-required result. It records the
// resources it was asked about.
type mockVerifier struct {
	acceptToken string
	acceptFor   map[payment.Resource]bool // nil accepts the token for any resource
	err         error
	checked     []payment.Resource
}

func (m *mockVerifier) Check(_ context.Context, req payment.Request, resource payment.Resource, _ payment.RouteConfig) (*payment.Result, error) {
	m.checked = append(m.checked, resource)

	if m.err != nil {
		return nil, m.err
	}

	if m.acceptToken != "" && req.Token() == m.acceptToken {
		if m.acceptFor == nil || m.acceptFor[resource] {
			return payment.Allow(), nil
		}
	}

	return &payment.Result{
		Status:      http.StatusPaymentRequired,
		RedirectURL: "https://facilitator.test/pay?resource=" + string(resource),
		Context: &payment.Context{
			Resource: string(resource),
			Price:    "$0.01",
			Network:  "base-sepolia",
			PayTo:    "0xPayTo",
			Nonce:    "test-nonce",
		},
	}, nil
}

// errorCompleter always fails, forcing the fallback reply.
type errorCompleter struct{}

func (errorCompleter) Complete(_ context.Context, _ string) (string, error) {
	return "", errMock
}

func noopPublish[T any](_ *T) error {
	return nil
}

func failPublish[T any](_ *T) error {
	return errMock
}

// recordPublish captures published events for assertions.
type recordPublish[T any] struct {
	events []*T
}

func (r *recordPublish[T]) publish(event *T) error {
	r.events = append(r.events, event)

	return nil
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}

	return ""
}
