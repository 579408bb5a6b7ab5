package appurl_test

import (
	"testing"

	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/request"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	t.Run("prefers configured public url", func(t *testing.T) {
		r := appurl.NewResolver("https://demo.example.com")

		got := r.Resolve(request.Meta{ForwardedHost: "tunnel.example.net", ForwardedProto: "https"})

		assert.Equal(t, "https://demo.example.com", got)
	})

	t.Run("strips trailing slash from configured url", func(t *testing.T) {
		r := appurl.NewResolver("https://demo.example.com/")

		assert.Equal(t, "https://demo.example.com", r.Resolve(request.Meta{}))
	})

	t.Run("uses forwarded host and proto", func(t *testing.T) {
		r := appurl.NewResolver("")

		got := r.Resolve(request.Meta{
			Host:           "localhost:8888",
			ForwardedHost:  "tunnel.example.net",
			ForwardedProto: "https",
		})

		assert.Equal(t, "https://tunnel.example.net", got)
	})

	t.Run("falls back to host header with http", func(t *testing.T) {
		r := appurl.NewResolver("")

		got := r.Resolve(request.Meta{Host: "localhost:8888"})

		assert.Equal(t, "http://localhost:8888", got)
	})

	t.Run("falls back to local default when nothing is known", func(t *testing.T) {
		r := appurl.NewResolver("")

		assert.Equal(t, appurl.DefaultBaseURL, r.Resolve(request.Meta{}))
	})
}
