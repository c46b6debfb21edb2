package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgres stores entries in the profile_entries table.
func NewPostgres(pool *pgxpool.Pool) Backend {
	return &postgresBackend{pool: pool}
}

func (r *postgresBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	const q = `
SELECT value
FROM profile_entries
WHERE scope = $1 AND key = $2
`
	var value string
	if err := r.pool.QueryRow(ctx, q, scope, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *postgresBackend) Set(ctx context.Context, scope, key, value string) error {
	const q = `
INSERT INTO profile_entries (scope, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (scope, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	_, err := r.pool.Exec(ctx, q, scope, key, value)
	return err
}

func (r *postgresBackend) Remove(ctx context.Context, scope string, keys ...string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM profile_entries
WHERE scope = $1 AND key = ANY($2)
`, scope, keys)
	return err
}
