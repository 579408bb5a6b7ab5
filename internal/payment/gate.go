package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Gate applies the route table to inbound requests. It is the single entry
// point handlers use: resource lookup, alias fallback, and delegation to
// the verifier all happen here.
type Gate struct {
	verifier Verifier
	routes   Routes
	logger   *zap.Logger
}

// NewGate creates a gate over the given verifier and route table.
func NewGate(verifier Verifier, routes Routes, logger *zap.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		routes:   routes,
		logger:   logger,
	}
}

// Check decides whether req may access resource. A blocked result carries
// the payment-required response to return verbatim. When the request holds
// a token that fails for the canonical resource, each configured alias is
// tried before giving up: facilitators have historically issued tokens
// addressed to redirect targets rather than the canonical path.
func (g *Gate) Check(ctx context.Context, req Request, resource Resource) (*Result, error) {
	cfg, ok := g.routes[resource]
	if !ok {
		return nil, fmt.Errorf("no price configured for resource %q", resource)
	}

	result, err := g.verifier.Check(ctx, req, resource, cfg)
	if err != nil {
		return nil, err
	}

	if result.Allowed {
		return result, nil
	}

	if req.Token() != "" {
		for _, alias := range cfg.Aliases {
			aliasResult, err := g.verifier.Check(ctx, req, alias, cfg)
			if err != nil {
				return nil, err
			}

			if aliasResult.Allowed {
				g.logger.Debug("accepted token addressed to alias",
					zap.String("resource", string(resource)),
					zap.String("alias", string(alias)),
				)

				return aliasResult, nil
			}
		}
	}

	return result, nil
}
