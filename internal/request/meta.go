// Package request carries per-request HTTP metadata through context so
// handlers and collaborators stay decoupled from the transport layer.
package request

import "context"

type metaKey struct{}

// Meta holds HTTP request metadata captured by the requestmeta middleware.
type Meta struct {
	RequestID      string
	ClientIP       string
	UserAgent      string
	Referrer       string
	Host           string
	ForwardedHost  string
	ForwardedProto string
}

// WithMeta adds request metadata to context.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext extracts request metadata from context.
func MetaFromContext(ctx context.Context) Meta {
	if v, ok := ctx.Value(metaKey{}).(Meta); ok {
		return v
	}

	return Meta{}
}
