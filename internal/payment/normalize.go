package payment

import (
	"net/url"
	"strings"
)

// Normalize returns a copy of req with its origin forced to the public
// origin and the query-parameter token fallback promoted to the token
// header. Every gate caller goes through this one helper instead of
// rewriting requests ad hoc.
func Normalize(req Request, origin string) Request {
	out := req.Clone()

	if origin != "" {
		if public, err := url.Parse(origin); err == nil && public.Host != "" {
			out.URL.Scheme = public.Scheme
			out.URL.Host = public.Host

			out.Header.Set("Host", public.Host)
			out.Header.Set("X-Forwarded-Host", public.Host)
			out.Header.Set("X-Forwarded-Proto", strings.TrimSuffix(public.Scheme, ":"))
		}
	}

	if token := out.URL.Query().Get(TokenQueryParam); token != "" && out.Header.Get(TokenHeader) == "" {
		out.Header.Set(TokenHeader, token)
	}

	return out
}
