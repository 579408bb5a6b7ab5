// Package credits implements the client-held message credit ledger.
//
// The balance lives entirely in a client cookie: the server trusts the
// presented value, decrements it on use, and refills it on payment. There
// is no server-side source of truth; tampering is accepted as bounded loss
// for a micropayment demo. Two concurrent requests from the same client can
// observe the same pre-decrement balance, so the ledger is not a security
// boundary.
package credits

import (
	"net/http"
	"strconv"
	"time"
)

const (
	// CookieName holds the remaining credit balance.
	CookieName = "message_credits"
	// TokenCookieName persists the last accepted payment token for client
	// script to reuse.
	TokenCookieName = "x402-payment-token"

	// GrantAmount is the balance set by a successful payment.
	GrantAmount = 5

	// MaxAge is the retention window of both cookies.
	MaxAge = 30 * 24 * time.Hour
)

// Ledger is the per-client credit counter. The zero value is Depleted.
type Ledger struct {
	balance int
}

// New creates a ledger with the given balance. Negative values clamp to 0.
func New(balance int) Ledger {
	if balance < 0 {
		balance = 0
	}

	return Ledger{balance: balance}
}

// Parse creates a ledger from a cookie value. Unparseable values read as 0.
func Parse(value string) Ledger {
	n, err := strconv.Atoi(value)
	if err != nil {
		return Ledger{}
	}

	return New(n)
}

// Balance returns the remaining credits.
func (l Ledger) Balance() int {
	return l.balance
}

// Funded reports whether at least one credit remains.
func (l Ledger) Funded() bool {
	return l.balance > 0
}

// Consume charges one credit. Consuming a depleted ledger is a no-op;
// callers must gate on Funded first.
func (l Ledger) Consume() Ledger {
	if l.balance == 0 {
		return l
	}

	return Ledger{balance: l.balance - 1}
}

// Grant resets the balance to the grant amount. A grant is a top-up to a
// fixed constant, never additive.
func (Ledger) Grant() Ledger {
	return Ledger{balance: GrantAmount}
}

// Cookie builds the credit balance cookie for this ledger.
func (l Ledger) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    strconv.Itoa(l.balance),
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenCookie builds the payment token cookie. The cookie is readable by
// client script on purpose: the browser flow stores the token for reuse.
func TokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}
