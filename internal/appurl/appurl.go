// Package appurl derives the externally reachable base URL of the
// application. Behind tunnels and reverse proxies the address a handler sees
// is not the address a browser can reach, so redirect targets handed to the
// payment facilitator must be repaired before leaving the process.
package appurl

import (
	"fmt"
	"strings"

	"github.com/serroba/paygate-demo-go/internal/request"
)

// DefaultBaseURL is the last-resort origin when neither configuration nor
// request headers give a usable answer.
const DefaultBaseURL = "http://localhost:8888"

// Resolver resolves the public origin (scheme + host) of the application.
type Resolver struct {
	publicURL string
}

// NewResolver creates a resolver. publicURL may be empty, in which case the
// origin is derived from forwarded headers per request.
func NewResolver(publicURL string) *Resolver {
	return &Resolver{publicURL: strings.TrimRight(publicURL, "/")}
}

// Resolve returns the external origin for a request, in priority order:
// the configured public URL, the forwarded host/proto headers, then the
// local fallback. It always returns a usable origin.
func (r *Resolver) Resolve(meta request.Meta) string {
	if r.publicURL != "" {
		return r.publicURL
	}

	host := meta.ForwardedHost
	if host == "" {
		host = meta.Host
	}

	if host != "" {
		proto := meta.ForwardedProto
		if proto == "" {
			proto = "http"
		}

		return fmt.Sprintf("%s://%s", proto, host)
	}

	return DefaultBaseURL
}
