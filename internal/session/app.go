// Package session owns the client's application state: one App per
// process holding the shared collaborators and caches, and one Session per
// reader holding what they are looking at and doing.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/listing"
	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/events"
	"github.com/example/forum-client/internal/platform/logging"
	"github.com/example/forum-client/internal/remote"
)

type Options struct {
	API     remote.API
	Network listing.Network
	// Store backs every offline namespace. Per-reader namespaces are
	// scoped by session id; cached responses are keyed by identity.
	Store    offline.Store
	Events   *events.Publisher
	PageSize int
	Logger   *zap.Logger
}

type App struct {
	api      remote.API
	network  listing.Network
	store    offline.Store
	events   *events.Publisher
	threads  *listing.Threads
	sessions *Registry
	pageSize int
	log      *zap.Logger
}

func NewApp(opts Options) *App {
	a := &App{
		api:      opts.API,
		network:  opts.Network,
		store:    opts.Store,
		events:   opts.Events,
		pageSize: opts.PageSize,
		log:      logging.OrNop(opts.Logger),
	}
	if a.store == nil {
		a.store = offline.NewMemory()
	}
	if a.pageSize <= 0 {
		a.pageSize = listing.DefaultStride
	}
	a.threads = listing.NewThreads(a.fetchComments, a.store, a.network, a.log)
	a.sessions = newRegistry(a.newSession)
	return a
}

func (a *App) fetchComments(ctx context.Context, k listing.ThreadKey) ([]domain.Comment, error) {
	return a.api.GetComments(ctx, remote.CommentQuery{PostID: k.PostID, Sort: k.Sort, MaxDepth: remote.DefaultMaxDepth})
}

func (a *App) fetchPosts(ctx context.Context, k listing.PaginationKey) (domain.PostPage, error) {
	return a.api.ListPosts(ctx, remote.PostQuery{
		Listing:   k.Listing,
		Sort:      k.Sort,
		Community: k.Scope,
		Cursor:    k.Cursor,
		Limit:     a.pageSize,
	})
}

// Online reports the forum's reachability as last observed.
func (a *App) Online() bool {
	return a.network == nil || a.network.Online()
}

func (a *App) Threads() *listing.Threads { return a.threads }

func (a *App) Sessions() *Registry { return a.sessions }

func (a *App) InvalidateThread(postID int64) {
	n := a.threads.Invalidate(postID)
	a.log.Debug("thread invalidated", zap.Int64("post_id", postID), zap.Int("entries", n))
}

func (a *App) InvalidateListings() {
	a.sessions.Each(func(s *Session) { s.feed.Clear() })
}

func (a *App) InvalidateAll() {
	a.threads.Clear()
	a.InvalidateListings()
}
