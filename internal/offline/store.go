// Package offline persists small key/value records that must outlive a
// network outage: cached GET responses, comment drafts, collapsed comment
// sets and scroll positions.
//
// Backends: Redis (OFFLINE_REDIS_URL), then Postgres (DATABASE_URL). The
// in-memory store is used for the server render target and as the
// development fallback.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Namespaces.
const (
	NSQueryGets       = "query_gets"
	NSCommentDrafts   = "comment_drafts"
	NSClosedComments  = "post_closed_comments"
	NSScrollPositions = "scroll_positions"
)

// Render targets.
const (
	TargetClient = "client"
	TargetServer = "server"
)

var (
	ErrMemoryInProduction = errors.New("production requires OFFLINE_REDIS_URL or DATABASE_URL for the offline store; in-memory store is not allowed")
	// ErrCorrupt is returned by GetJSON when a stored record does not
	// decode. Callers treat it as a miss.
	ErrCorrupt = errors.New("offline: corrupt record")
)

// Store is a namespaced byte store. Get reports found=false on a miss.
type Store interface {
	Get(ctx context.Context, ns, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) error
}

// Key serializes a composite key the way it is stored: as JSON.
func Key(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("offline key: %w", err)
	}
	return string(b), nil
}

// GetJSON loads and decodes the record at (ns, key) into dest.
func GetJSON(ctx context.Context, s Store, ns string, key any, dest any) (bool, error) {
	k, err := Key(key)
	if err != nil {
		return false, err
	}
	raw, ok, err := s.Get(ctx, ns, k)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, ns, k, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at (ns, key).
func SetJSON(ctx context.Context, s Store, ns string, key any, v any) error {
	k, err := Key(key)
	if err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("offline encode %s/%s: %w", ns, k, err)
	}
	return s.Set(ctx, ns, k, b)
}

// DeleteKey removes the record at (ns, key).
func DeleteKey(ctx context.Context, s Store, ns string, key any) error {
	k, err := Key(key)
	if err != nil {
		return err
	}
	return s.Delete(ctx, ns, k)
}

type Config struct {
	RedisURL    string
	DatabaseURL string
	// TTL bounds how long Redis keeps a record; zero keeps it forever.
	TTL          time.Duration
	RenderTarget string
	IsProd       bool
	Logger       *zap.Logger
}

// NewStore creates the best available store: Redis > Postgres > memory.
// The server render target always gets a memory store. Durable backends
// are wrapped in Fallback so a backend outage degrades to memory instead
// of failing requests.
func NewStore(cfg Config) (Store, error) {
	if cfg.RenderTarget == TargetServer {
		return NewMemory(), nil
	}
	if cfg.RedisURL != "" {
		rs, err := newRedisStore(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return NewFallback(rs, cfg.Logger), nil
	}
	if cfg.DatabaseURL != "" {
		return NewFallback(newPostgresStore(cfg.DatabaseURL), cfg.Logger), nil
	}
	if cfg.IsProd {
		return nil, ErrMemoryInProduction
	}
	return NewMemory(), nil
}
