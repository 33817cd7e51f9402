package offline

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/forum-client/internal/platform/db"
)

const schema = `CREATE TABLE IF NOT EXISTS offline_kv (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

type postgresStore struct {
	dsn string

	mu sync.Mutex
	// pool is lazily initialised on first use.
	pool *pgxpool.Pool
}

func newPostgresStore(dsn string) *postgresStore {
	return &postgresStore{dsn: dsn}
}

func (s *postgresStore) ensurePool(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		return s.pool, nil
	}
	pool, err := db.Open(ctx, s.dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	s.pool = pool
	return pool, nil
}

func (s *postgresStore) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	pool, err := s.ensurePool(ctx)
	if err != nil {
		return nil, false, err
	}
	var value []byte
	err = pool.QueryRow(ctx,
		`SELECT value FROM offline_kv WHERE namespace = $1 AND key = $2`, ns, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *postgresStore) Set(ctx context.Context, ns, key string, value []byte) error {
	pool, err := s.ensurePool(ctx)
	if err != nil {
		return err
	}
	const q = `INSERT INTO offline_kv (namespace, key, value, updated_at)
	           VALUES ($1, $2, $3, now())
	           ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err = pool.Exec(ctx, q, ns, key, value)
	return err
}

func (s *postgresStore) Delete(ctx context.Context, ns, key string) error {
	pool, err := s.ensurePool(ctx)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `DELETE FROM offline_kv WHERE namespace = $1 AND key = $2`, ns, key)
	return err
}

func (s *postgresStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
