package middleware_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

const (
	testHostAddr  = "192.168.1.1:12345"
	testUserAgent = "TestAgent/1.0"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

func newTestAPI(t *testing.T) huma.API {
	t.Helper()

	return humachi.New(chi.NewMux(), huma.DefaultConfig("Test", "1.0.0"))
}

// mockHumaContext implements huma.Context for testing.
type mockHumaContext struct {
	ctx        context.Context
	headers    map[string]string
	setHeaders map[string]string
	host       string
	remoteAddr string
	url        url.URL
	written    []byte
	statusCode int
	method     string
	operation  *huma.Operation
}

func newMockHumaContext() *mockHumaContext {
	return &mockHumaContext{
		ctx:        context.Background(),
		headers:    make(map[string]string),
		setHeaders: make(map[string]string),
		method:     "GET",
	}
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context   { return m.ctx }
func (m *mockHumaContext) TLS() *tls.ConnectionState  { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string             { return m.method }
func (m *mockHumaContext) Host() string               { return m.host }
func (m *mockHumaContext) RemoteAddr() string         { return m.remoteAddr }
func (m *mockHumaContext) URL() url.URL               { return m.url }
func (m *mockHumaContext) Param(_ string) string      { return "" }
func (m *mockHumaContext) Query(name string) string   { return m.url.Query().Get(name) }
func (m *mockHumaContext) Header(name string) string  { return m.headers[name] }
func (m *mockHumaContext) EachHeader(cb func(name, value string)) {
	for name, value := range m.headers {
		cb(name, value)
	}
}
func (m *mockHumaContext) BodyReader() io.Reader { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(code int)                { m.statusCode = code }
func (m *mockHumaContext) Status() int                       { return m.statusCode }
func (m *mockHumaContext) AppendHeader(name, value string)   { m.setHeaders[name] = value }
func (m *mockHumaContext) SetHeader(name, value string)      { m.setHeaders[name] = value }
func (m *mockHumaContext) BodyWriter() io.Writer             { return &mockBodyWriter{ctx: m} }

type mockBodyWriter struct {
	ctx *mockHumaContext
}

func (w *mockBodyWriter) Write(p []byte) (n int, err error) {
	w.ctx.written = append(w.ctx.written, p...)

	return len(p), nil
}
