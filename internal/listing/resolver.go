package listing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/logging"
)

// Network reports connectivity. It is read before every fetch.
type Network interface {
	Online() bool
}

type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Resolver answers lookups from the cache, the network or the offline
// store, in that order of preference.
type Resolver[K comparable, V any] struct {
	cache   *Cache[K, V]
	store   offline.Store
	network Network
	fetch   FetchFunc[K, V]
	log     *zap.Logger
	now     func() time.Time
	group   singleflight.Group
}

func NewResolver[K comparable, V any](cache *Cache[K, V], store offline.Store, network Network, fetch FetchFunc[K, V], log *zap.Logger) *Resolver[K, V] {
	if store == nil {
		store = offline.NewMemory()
	}
	return &Resolver[K, V]{
		cache:   cache,
		store:   store,
		network: network,
		fetch:   fetch,
		log:     logging.OrNop(log),
		now:     time.Now,
	}
}

// Resolve returns the value for key. A cached success is returned without
// touching the network; a cached failure or a miss fetches. While offline
// only the offline store is consulted and a miss fails with an offline
// error.
func (r *Resolver[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	if e, ok := r.cache.Get(key); ok && e.OK() {
		return e.Value, nil
	}
	return r.load(ctx, key)
}

// Refetch ignores any cached entry and replaces it with a fresh fetch.
func (r *Resolver[K, V]) Refetch(ctx context.Context, key K) (V, error) {
	return r.load(ctx, key)
}

func (r *Resolver[K, V]) load(ctx context.Context, key K) (V, error) {
	if !r.online() {
		return r.fromStore(ctx, key)
	}

	sk, err := offline.Key(key)
	if err != nil {
		var zero V
		return zero, apperr.New(apperr.Params, "cache key", err)
	}
	v, err, _ := r.group.Do(sk, func() (any, error) {
		v, err := r.fetch(ctx, key)
		r.cache.Set(key, Entry[V]{FetchedAt: r.now(), Value: v, Err: err})
		if err != nil {
			return v, err
		}
		if werr := offline.SetJSON(ctx, r.store, offline.NSQueryGets, sk, v); werr != nil {
			r.log.Warn("offline write-through failed", zap.String("key", sk), zap.Error(werr))
		}
		return v, nil
	})
	return v.(V), err
}

func (r *Resolver[K, V]) online() bool {
	return r.network == nil || r.network.Online()
}

func (r *Resolver[K, V]) fromStore(ctx context.Context, key K) (V, error) {
	var v V
	ok, err := offline.GetJSON(ctx, r.store, offline.NSQueryGets, key, &v)
	if err != nil {
		if !errors.Is(err, offline.ErrCorrupt) {
			r.log.Warn("offline read failed", zap.Error(err))
		}
		ok = false
	}
	if !ok {
		var zero V
		return zero, apperr.Offlinef("resolve", "no offline copy")
	}
	return v, nil
}
