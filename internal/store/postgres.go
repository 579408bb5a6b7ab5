package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/paygate-demo-go/internal/shortlink"
)

// PostgresStore is a PostgreSQL implementation of shortlink.Repository.
//
// Expected schema:
//
//	CREATE TABLE short_links (
//	    code         TEXT PRIMARY KEY,
//	    original_url TEXT NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, link *shortlink.Link) error {
	query := `
		INSERT INTO short_links (code, original_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query, link.Code, link.OriginalURL, link.CreatedAt)

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code string) (*shortlink.Link, error) {
	query := `
		SELECT code, original_url, created_at
		FROM short_links
		WHERE code = $1
	`

	var link shortlink.Link

	err := p.pool.QueryRow(ctx, query, code).Scan(
		&link.Code,
		&link.OriginalURL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM short_links WHERE code = $1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM short_links`)

	return err
}
