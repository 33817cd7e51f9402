package listing

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/logging"
)

// Threads caches the flat comment list of each post.
type Threads struct {
	cache    *Cache[ThreadKey, []domain.Comment]
	resolver *Resolver[ThreadKey, []domain.Comment]
	store    offline.Store
	log      *zap.Logger
}

// NewThreads creates an empty thread cache. A nil store keeps offline
// copies in memory.
func NewThreads(fetch FetchFunc[ThreadKey, []domain.Comment], store offline.Store, network Network, log *zap.Logger) *Threads {
	if store == nil {
		store = offline.NewMemory()
	}
	cache := NewCache[ThreadKey, []domain.Comment]()
	return &Threads{
		cache:    cache,
		resolver: NewResolver(cache, store, network, fetch, log),
		store:    store,
		log:      logging.OrNop(log),
	}
}

func (t *Threads) Get(ctx context.Context, key ThreadKey) ([]domain.Comment, error) {
	return t.resolver.Resolve(ctx, key)
}

func (t *Threads) Refetch(ctx context.Context, key ThreadKey) ([]domain.Comment, error) {
	return t.resolver.Refetch(ctx, key)
}

// Patch replaces comment c in the cached lists of its post that were
// fetched for auth. Lists fetched for other identities are dropped since
// they carry their own vote and saved state. It returns the number of
// lists updated.
func (t *Threads) Patch(ctx context.Context, auth string, c domain.Comment) int {
	return t.mutate(ctx, auth, c.PostID, func(list []domain.Comment) ([]domain.Comment, bool) {
		i := slices.IndexFunc(list, func(x domain.Comment) bool { return x.ID == c.ID })
		if i < 0 {
			return list, false
		}
		out := slices.Clone(list)
		out[i] = c
		return out, true
	})
}

// Append adds a newly created comment to the cached lists of its post.
func (t *Threads) Append(ctx context.Context, auth string, c domain.Comment) int {
	return t.mutate(ctx, auth, c.PostID, func(list []domain.Comment) ([]domain.Comment, bool) {
		if i := slices.IndexFunc(list, func(x domain.Comment) bool { return x.ID == c.ID }); i >= 0 {
			out := slices.Clone(list)
			out[i] = c
			return out, true
		}
		return append(slices.Clone(list), c), true
	})
}

func (t *Threads) mutate(ctx context.Context, auth string, postID int64, fn func([]domain.Comment) ([]domain.Comment, bool)) int {
	type write struct {
		key  ThreadKey
		list []domain.Comment
	}
	var writes []write
	for _, k := range t.cache.Keys() {
		if k.PostID != postID {
			continue
		}
		if k.Auth != auth {
			t.cache.Delete(k)
			continue
		}
		t.cache.Update(k, func(e Entry[[]domain.Comment]) Entry[[]domain.Comment] {
			if !e.OK() {
				return e
			}
			list, changed := fn(e.Value)
			if !changed {
				return e
			}
			e.Value = list
			writes = append(writes, write{key: k, list: list})
			return e
		})
	}
	for _, w := range writes {
		if err := offline.SetJSON(ctx, t.store, offline.NSQueryGets, w.key, w.list); err != nil {
			t.log.Warn("offline write-through failed", zap.Int64("post_id", postID), zap.Error(err))
		}
	}
	return len(writes)
}

// Find returns the cached copy of comment id as fetched for auth.
func (t *Threads) Find(auth string, id int64) (domain.Comment, bool) {
	for _, k := range t.cache.Keys() {
		if k.Auth != auth {
			continue
		}
		e, ok := t.cache.Get(k)
		if !ok || !e.OK() {
			continue
		}
		if i := slices.IndexFunc(e.Value, func(x domain.Comment) bool { return x.ID == id }); i >= 0 {
			return e.Value[i], true
		}
	}
	return domain.Comment{}, false
}

// Invalidate drops every cached list of postID.
func (t *Threads) Invalidate(postID int64) int {
	return t.cache.Retain(func(k ThreadKey, _ Entry[[]domain.Comment]) bool {
		return k.PostID != postID
	})
}

func (t *Threads) Clear() { t.cache.Clear() }

func (t *Threads) Cache() *Cache[ThreadKey, []domain.Comment] { return t.cache }
