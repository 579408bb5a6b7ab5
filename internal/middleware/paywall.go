package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/paygate-demo-go/internal/appurl"
	"github.com/serroba/paygate-demo-go/internal/payment"
	"github.com/serroba/paygate-demo-go/internal/request"
	"go.uber.org/zap"
)

// PaywallMetadataKey marks an operation as paywalled; the metadata value is
// the payment.Resource to price the request against.
const PaywallMetadataKey = "paywall"

// paymentRequiredBody is the response body of a blocked request.
type paymentRequiredBody struct {
	Error          string           `json:"error"`
	RedirectURL    string           `json:"redirectUrl,omitempty"`
	PaymentContext *payment.Context `json:"paymentContext,omitempty"`
}

// Paywall returns a huma middleware that gates operations carrying the
// paywall metadata key. Blocked requests never reach the handler; the
// gate's response is written through with its status, redirect, and
// payment context intact.
func Paywall(api huma.API, gate *payment.Gate, resolver *appurl.Resolver, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		resource, ok := paywallResource(ctx)
		if !ok {
			next(ctx)

			return
		}

		meta := request.MetaFromContext(ctx.Context())
		req := paymentRequest(ctx)
		req = payment.Normalize(req, resolver.Resolve(meta))

		result, err := gate.Check(ctx.Context(), req, resource)
		if err != nil {
			logger.Error("payment check failed",
				zap.String("resource", string(resource)),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !result.Allowed {
			writeBlocked(ctx, result)

			return
		}

		next(ctx)
	}
}

// paywallResource extracts the priced resource from operation metadata.
func paywallResource(ctx huma.Context) (payment.Resource, bool) {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return "", false
	}

	resource, ok := op.Metadata[PaywallMetadataKey].(payment.Resource)

	return resource, ok
}

// paymentRequest builds the gate's request view from the huma context.
func paymentRequest(ctx huma.Context) payment.Request {
	u := ctx.URL()

	header := http.Header{}
	ctx.EachHeader(func(name, value string) {
		header.Add(name, value)
	})

	return payment.Request{
		Method: ctx.Method(),
		URL:    &u,
		Header: header,
	}
}

// writeBlocked passes the gate's payment-required response through
// verbatim.
func writeBlocked(ctx huma.Context, result *payment.Result) {
	ctx.SetHeader("Content-Type", "application/json; charset=utf-8")

	if result.RedirectURL != "" {
		ctx.SetHeader("Location", result.RedirectURL)
	}

	ctx.SetStatus(result.Status)

	_ = json.NewEncoder(ctx.BodyWriter()).Encode(paymentRequiredBody{
		Error:          "Payment required",
		RedirectURL:    result.RedirectURL,
		PaymentContext: result.Context,
	})
}
