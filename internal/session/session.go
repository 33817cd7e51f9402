package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/disclosure"
	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/drafts"
	"github.com/example/forum-client/internal/forest"
	"github.com/example/forum-client/internal/listing"
	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/auth"
	"github.com/example/forum-client/internal/platform/events"
)

// Query is a post listing view without its pages or identity.
type Query struct {
	Listing domain.ListingType `json:"listing"`
	Sort    domain.SortType    `json:"sort"`
	Scope   string             `json:"scope,omitempty"`
}

// Session is one reader's state. Every method takes the request context,
// which carries the reader's identity.
type Session struct {
	ID string

	app          *App
	feed         *listing.Feed
	interactions disclosure.Interactions
	disclosure   *disclosure.Store
	drafts       *drafts.Store
	scroll       offline.Store

	mu        sync.Mutex
	collapsed map[int64]*disclosure.Set
	seen      time.Time
}

// Session returns the session of the caller: their identity when logged
// in, otherwise the anonymous client id.
func (a *App) Session(ctx context.Context, clientID string) *Session {
	id := auth.IdentityFromContext(ctx)
	key := "client:" + clientID
	if id.LoggedIn() {
		key = id.CacheScope()
	}
	return a.sessions.Get(key)
}

func (a *App) newSession(id string) *Session {
	scoped := offline.Scoped(a.store, id)
	log := a.log.With(zap.String("session", id))
	return &Session{
		ID:         id,
		app:        a,
		feed:       listing.NewFeed(a.fetchPosts, a.store, a.network, a.pageSize, log),
		disclosure: disclosure.NewStore(scoped, log),
		drafts:     drafts.NewStore(scoped, log),
		scroll:     scoped,
		collapsed:  make(map[int64]*disclosure.Set),
	}
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.seen = t
	s.mu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

func authScope(ctx context.Context) string {
	return auth.IdentityFromContext(ctx).CacheScope()
}

func (s *Session) queryContext(ctx context.Context, q Query) listing.QueryContext {
	return listing.QueryContext{Listing: q.Listing, Sort: q.Sort, Scope: q.Scope, Auth: authScope(ctx)}
}

// Listing loads every requested page of q.
func (s *Session) Listing(ctx context.Context, q Query, pages listing.Pages) []listing.PageResult {
	return s.feed.Load(ctx, s.queryContext(ctx, q), pages)
}

// NextPage is the infinite-scroll trigger for q. It returns the page list
// to load next and whether it grew.
func (s *Session) NextPage(ctx context.Context, q Query) (listing.Pages, bool) {
	return s.feed.Advance(s.queryContext(ctx, q))
}

// Refetch reloads every requested page of q from the forum.
func (s *Session) Refetch(ctx context.Context, q Query, pages listing.Pages) []listing.PageResult {
	return s.feed.Refetch(ctx, s.queryContext(ctx, q), pages)
}

// ThreadRow is a rendered comment with its control state.
type ThreadRow struct {
	forest.Row
	Interaction disclosure.Interaction `json:"interaction"`
}

type Thread struct {
	PostID    int64                  `json:"post_id"`
	Sort      domain.CommentSortType `json:"sort"`
	Rows      []ThreadRow            `json:"rows"`
	Collapsed []int64                `json:"collapsed"`
	Total     int                    `json:"total"`
}

// Thread loads a post's comments and renders the rows visible under the
// reader's collapsed set.
func (s *Session) Thread(ctx context.Context, postID int64, sort domain.CommentSortType) (Thread, error) {
	comments, err := s.app.threads.Get(ctx, listing.ThreadKey{PostID: postID, Sort: sort, Auth: authScope(ctx)})
	if err != nil {
		return Thread{}, err
	}
	f := forest.Build(comments)
	set := s.collapsedSet(ctx, postID)

	s.mu.Lock()
	rows := f.Rows(set)
	ids := set.IDs()
	s.mu.Unlock()

	out := Thread{PostID: postID, Sort: sort, Rows: make([]ThreadRow, len(rows)), Collapsed: ids, Total: f.Len()}
	for i, r := range rows {
		out.Rows[i] = ThreadRow{Row: r, Interaction: s.interactions.State(r.Comment.ID)}
	}
	return out, nil
}

// collapsedSet returns the hydrated set of postID, loading it on first use.
func (s *Session) collapsedSet(ctx context.Context, postID int64) *disclosure.Set {
	s.mu.Lock()
	set, ok := s.collapsed[postID]
	s.mu.Unlock()
	if ok {
		return set
	}

	loaded := s.disclosure.Load(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.collapsed[postID]; ok {
		return set
	}
	s.collapsed[postID] = loaded
	return loaded
}

func (s *Session) persistCollapsed(ctx context.Context, postID int64, ids []int64) {
	if err := s.disclosure.Save(ctx, postID, disclosure.NewSet(ids...)); err != nil {
		s.app.log.Warn("persist collapsed comments", zap.String("session", s.ID),
			zap.Int64("post_id", postID), zap.Error(err))
	}
}

// ToggleCollapsed folds or unfolds a comment's branch and reports whether
// it is now folded, along with the full collapsed list.
func (s *Session) ToggleCollapsed(ctx context.Context, postID, commentID int64) (bool, []int64) {
	set := s.collapsedSet(ctx, postID)
	s.mu.Lock()
	collapsed := set.Toggle(commentID)
	ids := set.IDs()
	s.mu.Unlock()
	s.persistCollapsed(ctx, postID, ids)
	return collapsed, ids
}

func (s *Session) Collapsed(ctx context.Context, postID int64) []int64 {
	set := s.collapsedSet(ctx, postID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return set.IDs()
}

// SetCollapsed replaces the collapsed list of postID.
func (s *Session) SetCollapsed(ctx context.Context, postID int64, ids []int64) []int64 {
	set := s.collapsedSet(ctx, postID)
	s.mu.Lock()
	set.Replace(ids)
	out := set.IDs()
	s.mu.Unlock()
	s.persistCollapsed(ctx, postID, out)
	return out
}

func composerFor(kind drafts.Kind) disclosure.Composer {
	if kind == drafts.Edit {
		return disclosure.Editing
	}
	return disclosure.Replying
}

// ToggleComposer opens or closes the reply or edit composer under a
// comment and returns its state and the saved draft, if any.
func (s *Session) ToggleComposer(ctx context.Context, commentID int64, kind drafts.Kind) (disclosure.Interaction, string) {
	var st disclosure.Interaction
	switch kind {
	case drafts.Edit:
		st = s.interactions.ToggleEdit(commentID)
	case drafts.Reply:
		st = s.interactions.ToggleReply(commentID)
	default:
		st = s.interactions.State(commentID)
	}
	if kind != drafts.Post && st.Composer != composerFor(kind) {
		return st, ""
	}
	return st, s.drafts.Load(ctx, drafts.Key{CommentID: commentID, Kind: kind})
}

// OpenComposer opens a composer unconditionally and loads its draft. Post
// drafts have no composer state; only the draft is loaded.
func (s *Session) OpenComposer(ctx context.Context, commentID int64, kind drafts.Kind) (disclosure.Interaction, string) {
	st := s.interactions.State(commentID)
	if kind != drafts.Post {
		st = s.interactions.Open(commentID, composerFor(kind))
	}
	return st, s.drafts.Load(ctx, drafts.Key{CommentID: commentID, Kind: kind})
}

// CloseComposer closes the composer; its draft is kept.
func (s *Session) CloseComposer(commentID int64) disclosure.Interaction {
	return s.interactions.CloseComposer(commentID)
}

func (s *Session) ToggleVoteMenu(commentID int64) disclosure.Interaction {
	return s.interactions.ToggleVoteMenu(commentID)
}

func (s *Session) Interaction(commentID int64) disclosure.Interaction {
	return s.interactions.State(commentID)
}

// Gesture returns a pointer recognizer for one comment of postID, bound to
// this session: a tap folds the branch, a hold or a double tap toggles the
// vote menu. Client render targets feed it raw pointer events.
func (s *Session) Gesture(ctx context.Context, postID, commentID int64) *disclosure.Gesture {
	// callbacks fire after the triggering request may have finished
	ctx = context.WithoutCancel(ctx)
	return disclosure.NewGesture(
		func() { s.ToggleCollapsed(ctx, postID, commentID) },
		func() { s.ToggleVoteMenu(commentID) },
	)
}

// UpdateDraft saves composer text; it is called on every keystroke.
func (s *Session) UpdateDraft(ctx context.Context, key drafts.Key, text string) {
	s.drafts.Update(ctx, key, text)
}

func (s *Session) Draft(ctx context.Context, key drafts.Key) string {
	return s.drafts.Load(ctx, key)
}

func (s *Session) requireOnline(op string) error {
	if !s.app.Online() {
		return apperr.Offlinef(op, "mutations need the forum")
	}
	return nil
}

// SubmitReply posts a reply under parentID, or a top-level comment when
// parentID is nil. On success the draft is discarded, the composer closed
// and the cached thread updated; on failure the draft is kept.
func (s *Session) SubmitReply(ctx context.Context, postID int64, parentID *int64, text string) (domain.Comment, error) {
	if err := s.requireOnline("submit reply"); err != nil {
		return domain.Comment{}, err
	}
	c, err := s.app.api.CreateComment(ctx, postID, parentID, text)
	if err != nil {
		return domain.Comment{}, err
	}
	key := drafts.Key{CommentID: postID, Kind: drafts.Post}
	if parentID != nil {
		key = drafts.Key{CommentID: *parentID, Kind: drafts.Reply}
		s.interactions.CloseComposer(*parentID)
	}
	s.drafts.Discard(ctx, key)
	s.app.threads.Append(ctx, authScope(ctx), c)
	s.app.events.Publish(events.ScopeThread, postID)
	// the post's comment count shown in listings changed too
	s.app.events.Publish(events.ScopeListing, postID)
	return c, nil
}

// SubmitEdit replaces a comment's text.
func (s *Session) SubmitEdit(ctx context.Context, commentID int64, text string) (domain.Comment, error) {
	if err := s.requireOnline("submit edit"); err != nil {
		return domain.Comment{}, err
	}
	c, err := s.app.api.EditComment(ctx, commentID, text)
	if err != nil {
		return domain.Comment{}, err
	}
	s.drafts.Discard(ctx, drafts.Key{CommentID: commentID, Kind: drafts.Edit})
	s.interactions.CloseComposer(commentID)
	s.app.threads.Patch(ctx, authScope(ctx), c)
	s.app.events.Publish(events.ScopeThread, c.PostID)
	return c, nil
}

// NextVote is the score sent when the reader presses the button for
// direction: pressing the active direction again clears the vote.
func NextVote(current, direction int16) int16 {
	if direction == 0 || current == direction {
		return 0
	}
	return direction
}

// VoteComment votes in direction (+1 or -1) and closes the vote menu.
func (s *Session) VoteComment(ctx context.Context, commentID int64, direction int16) (domain.Comment, error) {
	if direction < -1 || direction > 1 {
		return domain.Comment{}, apperr.Paramsf("vote comment", "direction %d", direction)
	}
	if err := s.requireOnline("vote comment"); err != nil {
		return domain.Comment{}, err
	}
	scope := authScope(ctx)
	current, _ := s.app.threads.Find(scope, commentID)
	c, err := s.app.api.VoteComment(ctx, commentID, NextVote(current.MyVote, direction))
	if err != nil {
		return domain.Comment{}, err
	}
	s.interactions.CloseVoteMenu(commentID)
	s.app.threads.Patch(ctx, scope, c)
	s.app.events.Publish(events.ScopeThread, c.PostID)
	return c, nil
}

// SaveComment toggles the reader's saved flag on a comment.
func (s *Session) SaveComment(ctx context.Context, commentID int64) (domain.Comment, error) {
	if err := s.requireOnline("save comment"); err != nil {
		return domain.Comment{}, err
	}
	scope := authScope(ctx)
	current, _ := s.app.threads.Find(scope, commentID)
	c, err := s.app.api.SaveComment(ctx, commentID, !current.Saved)
	if err != nil {
		return domain.Comment{}, err
	}
	s.interactions.CloseVoteMenu(commentID)
	s.app.threads.Patch(ctx, scope, c)
	return c, nil
}

type scrollKey struct {
	Path  string `json:"path"`
	Query string `json:"query"`
}

// SaveScroll remembers the scroll offset of a view.
func (s *Session) SaveScroll(ctx context.Context, path, query string, offset int) {
	if err := offline.SetJSON(ctx, s.scroll, offline.NSScrollPositions, scrollKey{Path: path, Query: query}, offset); err != nil {
		s.app.log.Warn("save scroll position", zap.String("session", s.ID), zap.Error(err))
	}
}

// LoadScroll returns the saved scroll offset of a view.
func (s *Session) LoadScroll(ctx context.Context, path, query string) (int, bool) {
	var offset int
	ok, err := offline.GetJSON(ctx, s.scroll, offline.NSScrollPositions, scrollKey{Path: path, Query: query}, &offset)
	if err != nil {
		s.app.log.Warn("load scroll position", zap.String("session", s.ID), zap.Error(err))
		return 0, false
	}
	return offset, ok
}
