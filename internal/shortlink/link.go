// Package shortlink implements the short-link domain: code generation and
// the create/resolve operations over a pluggable repository.
package shortlink

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a short code has no stored mapping.
var ErrNotFound = errors.New("short link not found")

// ErrEmptyURL is returned when a caller tries to shorten an empty URL.
var ErrEmptyURL = errors.New("original url is empty")

// Link maps a short code to its original URL. Links are never mutated or
// deleted; store lifetime is process lifetime unless a durable backend is
// configured.
type Link struct {
	Code        string
	OriginalURL string
	CreatedAt   time.Time
}

// Repository defines the storage operations needed by the service.
type Repository interface {
	Save(ctx context.Context, link *Link) error
	GetByCode(ctx context.Context, code string) (*Link, error)
	Exists(ctx context.Context, code string) (bool, error)

	// Clear wipes all entries. Intended for test isolation only.
	Clear(ctx context.Context) error
}
