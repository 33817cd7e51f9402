package listing

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/offline"
)

// maxParallelPages bounds concurrent page fetches of one Load.
const maxParallelPages = 4

// PageResult is one resolved page of a feed. Err is set when the page
// could not be resolved; the other pages are still usable.
type PageResult struct {
	Page       Page          `json:"page"`
	Posts      []domain.Post `json:"posts"`
	NextCursor *string       `json:"next_page,omitempty"`
	Err        error         `json:"-"`
}

// Feed is one reader's infinite post listing: the active query context,
// the pages scrolled through so far, and the responses cached for them.
type Feed struct {
	cache    *Cache[PaginationKey, domain.PostPage]
	resolver *Resolver[PaginationKey, domain.PostPage]
	tracker  *Tracker

	mu      sync.Mutex
	started bool
	active  QueryContext
	pages   Pages
}

// NewFeed creates an empty feed. A nil store keeps offline copies in memory.
func NewFeed(fetch FetchFunc[PaginationKey, domain.PostPage], store offline.Store, network Network, stride int, log *zap.Logger) *Feed {
	if store == nil {
		store = offline.NewMemory()
	}
	cache := NewCache[PaginationKey, domain.PostPage]()
	return &Feed{
		cache:    cache,
		resolver: NewResolver(cache, store, network, fetch, log),
		tracker:  NewTracker(stride),
	}
}

// Active returns the current query context and page list.
func (f *Feed) Active() (QueryContext, Pages) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, append(Pages(nil), f.pages...)
}

// Cache exposes the response cache.
func (f *Feed) Cache() *Cache[PaginationKey, domain.PostPage] { return f.cache }

// SwitchContext makes (qc, pages) the active view and prunes every cached
// page that is not part of it. An empty page list means the first page.
// A new context or a different page list (back navigation to fewer pages)
// resets the tracker; the frontier is then rebuilt from the pages resolved
// for the new view.
func (f *Feed) SwitchContext(qc QueryContext, pages Pages) Pages {
	pages = append(Pages(nil), pages.OrFirst()...)

	f.mu.Lock()
	changed := !f.started || qc != f.active || !slices.Equal(f.pages, pages)
	f.started = true
	f.active = qc
	f.pages = pages
	f.mu.Unlock()

	f.cache.Retain(func(k PaginationKey, _ Entry[domain.PostPage]) bool {
		return k.Context() == qc && pages.Has(k.Page())
	})
	if changed {
		f.tracker.Reset(qc)
	}
	return pages
}

// Load activates (qc, pages) and resolves every page.
func (f *Feed) Load(ctx context.Context, qc QueryContext, pages Pages) []PageResult {
	pages = f.SwitchContext(qc, pages)
	return f.resolve(ctx, qc, pages, f.resolver.Resolve)
}

// Refetch resolves every page of the active view from the network again,
// replacing cached entries.
func (f *Feed) Refetch(ctx context.Context, qc QueryContext, pages Pages) []PageResult {
	pages = f.SwitchContext(qc, pages)
	return f.resolve(ctx, qc, pages, f.resolver.Refetch)
}

func (f *Feed) resolve(ctx context.Context, qc QueryContext, pages Pages, get func(context.Context, PaginationKey) (domain.PostPage, error)) []PageResult {
	results := make([]PageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPages)
	for i, p := range pages {
		i, p := i, p
		g.Go(func() error {
			pp, err := get(gctx, NewPaginationKey(qc, p))
			results[i] = PageResult{Page: p, Err: err}
			if err != nil {
				return nil
			}
			results[i].Posts = pp.Posts
			results[i].NextCursor = pp.NextCursor
			f.tracker.Observe(qc, p.Index, pp.NextCursor)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Advance is the infinite-scroll trigger: when the tracker has a frontier
// for the active context that is not yet in the page list, it is appended.
// It returns the (possibly extended) page list and whether it grew.
func (f *Feed) Advance(qc QueryContext) (Pages, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started || qc != f.active {
		return append(Pages(nil), f.pages...), false
	}
	pages := f.pages.OrFirst()
	next, ok := f.tracker.Next(qc)
	if !ok || pages.HasIndex(next.Index) {
		f.pages = pages
		return append(Pages(nil), pages...), false
	}
	f.pages = append(append(Pages(nil), pages...), next)
	return append(Pages(nil), f.pages...), true
}

// Next is the frontier of the active context.
func (f *Feed) Next(qc QueryContext) (Page, bool) {
	return f.tracker.Next(qc)
}

// Clear drops every cached page.
func (f *Feed) Clear() {
	f.cache.Clear()
}
