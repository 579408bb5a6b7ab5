package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/analytics"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/messaging"
	"github.com/serroba/paygate-demo-go/internal/request"
	"github.com/serroba/paygate-demo-go/internal/shortlink"
	"go.uber.org/zap"
)

// LinkHandler handles short-link creation, lookup, and redirect.
type LinkHandler struct {
	service         *shortlink.Service
	resolver        *appurl.Resolver
	publishCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent]
	logger          *zap.Logger
}

// NewLinkHandler creates a link handler.
func NewLinkHandler(
	service *shortlink.Service,
	resolver *appurl.Resolver,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:         service,
		resolver:        resolver,
		publishCreated:  publishCreated,
		publishAccessed: publishAccessed,
		logger:          logger,
	}
}

// CreateLink creates a short link from the submitted form. Payment is
// enforced upstream by the paywall middleware; this handler only validates
// and stores. The redirect carries the original URL as a query parameter so
// the result page can render without reaching the store.
func (h *LinkHandler) CreateLink(ctx context.Context, in *CreateLinkRequest) (*CreateLinkResponse, error) {
	form, err := url.ParseQuery(string(in.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("invalid form body")
	}

	original := strings.TrimSpace(form.Get("url"))
	if original == "" {
		return nil, huma.Error400BadRequest("missing url")
	}

	link, err := h.service.Create(ctx, original)
	if err != nil {
		if errors.Is(err, shortlink.ErrEmptyURL) {
			return nil, huma.Error400BadRequest("missing url")
		}

		h.logger.Error("failed to create short link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create short link")
	}

	meta := request.MetaFromContext(ctx)

	if err := h.publishCreated(&analytics.LinkCreatedEvent{
		Code:        link.Code,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{Status: http.StatusSeeOther}
	resp.Headers.Location = fmt.Sprintf("%s/protected/result?code=%s&u=%s",
		h.resolver.Resolve(meta), link.Code, url.QueryEscape(link.OriginalURL))

	return resp, nil
}

// LookupLink resolves a short code to its original URL.
func (h *LinkHandler) LookupLink(ctx context.Context, in *LookupLinkRequest) (*LookupLinkResponse, error) {
	link, err := h.resolve(ctx, in.Code)
	if err != nil {
		return nil, err
	}

	resp := &LookupLinkResponse{}
	resp.Body.Original = link.OriginalURL

	return resp, nil
}

// RedirectLink follows a short code to its original URL.
func (h *LinkHandler) RedirectLink(ctx context.Context, in *RedirectLinkRequest) (*RedirectLinkResponse, error) {
	link, err := h.resolve(ctx, in.Code)
	if err != nil {
		return nil, err
	}

	meta := request.MetaFromContext(ctx)

	if err := h.publishAccessed(&analytics.LinkAccessedEvent{
		Code:       link.Code,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectLinkResponse{Status: http.StatusTemporaryRedirect}
	resp.Headers.Location = link.OriginalURL

	return resp, nil
}

func (h *LinkHandler) resolve(ctx context.Context, code string) (*shortlink.Link, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, huma.Error400BadRequest("missing code")
	}

	link, err := h.service.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("not found")
		}

		h.logger.Error("failed to resolve short link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve short link")
	}

	return link, nil
}
