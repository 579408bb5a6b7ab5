package shortlink

import (
	"context"
	"time"
)

// maxAttempts is the collision retry budget at the default code length.
const maxAttempts = 10

// Service implements short-link creation and resolution.
//
// Create is not atomic across concurrent callers: two requests could pass
// the Exists check with the same code before either Save lands. The
// repository itself is concurrency-safe, but this check-then-insert race is
// an accepted gap of the demo store, kept as documented behavior.
type Service struct {
	repo     Repository
	generate Generator
	fallback Generator
}

// NewService creates a short-link service. generate produces codes at the
// default length, fallback at the extended length.
func NewService(repo Repository, generate, fallback Generator) *Service {
	return &Service{
		repo:     repo,
		generate: generate,
		fallback: fallback,
	}
}

// Create generates a code for originalURL and stores the mapping. On
// collision it retries up to the budget at the default length, then makes a
// single attempt at the extended length, then stores unconditionally:
// residual collision risk is accepted rather than looping indefinitely.
func (s *Service) Create(ctx context.Context, originalURL string) (*Link, error) {
	if originalURL == "" {
		return nil, ErrEmptyURL
	}

	code := s.generate()

	for attempts := 0; attempts < maxAttempts; attempts++ {
		taken, err := s.repo.Exists(ctx, code)
		if err != nil {
			return nil, err
		}

		if !taken {
			break
		}

		code = s.generate()
	}

	// One extended attempt if the budget ran out on a taken code.
	taken, err := s.repo.Exists(ctx, code)
	if err != nil {
		return nil, err
	}

	if taken {
		code = s.fallback()
	}

	link := &Link{
		Code:        code,
		OriginalURL: originalURL,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Save(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// Resolve returns the link stored under code, or ErrNotFound.
func (s *Service) Resolve(ctx context.Context, code string) (*Link, error) {
	return s.repo.GetByCode(ctx, code)
}
