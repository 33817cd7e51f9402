package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/offline"
)

type netFlag struct {
	mu     sync.Mutex
	online bool
}

func (n *netFlag) Online() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online
}

func (n *netFlag) set(v bool) {
	n.mu.Lock()
	n.online = v
	n.mu.Unlock()
}

// stubPosts serves pages keyed by cursor and counts calls.
type stubPosts struct {
	mu    sync.Mutex
	calls map[PaginationKey]int
	next  map[string]*string
	fail  error
}

func newStubPosts() *stubPosts {
	tokenA, tokenB := "tokenA", "tokenB"
	return &stubPosts{
		calls: map[PaginationKey]int{},
		next:  map[string]*string{"": &tokenA, "tokenA": &tokenB, "tokenB": nil},
	}
}

func (s *stubPosts) fetch(_ context.Context, k PaginationKey) (domain.PostPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[k]++
	if s.fail != nil {
		return domain.PostPage{}, s.fail
	}
	return domain.PostPage{
		Posts:      []domain.Post{{ID: int64(k.Index + 1), Name: string(k.Sort)}},
		NextCursor: s.next[k.Cursor],
	}, nil
}

func (s *stubPosts) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

var hot = QueryContext{Listing: domain.ListingAll, Sort: domain.SortHot, Auth: "anon"}

func TestPaginationKeyConsistency(t *testing.T) {
	base := NewPaginationKey(hot, Page{Index: 50, Cursor: "tokenA"})
	same := NewPaginationKey(QueryContext{Listing: domain.ListingAll, Sort: domain.SortHot, Auth: "anon"}, Page{Index: 50, Cursor: "tokenA"})
	if base != same {
		t.Fatal("structurally equal keys must be equal")
	}

	c := NewCache[PaginationKey, int]()
	c.Set(base, Entry[int]{Value: 1})
	if e, ok := c.Get(same); !ok || e.Value != 1 {
		t.Fatal("equal keys must resolve to the same entry")
	}

	variants := []PaginationKey{base, base, base, base, base, base}
	variants[0].Index = 100
	variants[1].Cursor = "tokenB"
	variants[2].Listing = domain.ListingLocal
	variants[3].Sort = domain.SortNew
	variants[4].Scope = "golang"
	variants[5].Auth = "user:1"
	for i, v := range variants {
		if _, ok := c.Get(v); ok {
			t.Fatalf("variant %d should not hit", i)
		}
	}
}

func TestOKHitSkipsNetworkAndErrHitRetries(t *testing.T) {
	stub := newStubPosts()
	cache := NewCache[PaginationKey, domain.PostPage]()
	r := NewResolver(cache, offline.NewMemory(), &netFlag{online: true}, stub.fetch, nil)
	ctx := context.Background()
	key := NewPaginationKey(hot, FirstPage)

	if _, err := r.Resolve(ctx, key); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := r.Resolve(ctx, key); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if stub.total() != 1 {
		t.Fatalf("cached success should not refetch, calls=%d", stub.total())
	}

	errKey := NewPaginationKey(hot, Page{Index: 50, Cursor: "tokenA"})
	stub.fail = apperr.New(apperr.Network, "list posts", errors.New("timeout"))
	if _, err := r.Resolve(ctx, errKey); !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if e, ok := cache.Get(errKey); !ok || e.OK() {
		t.Fatal("failure should be cached for display")
	}
	stub.fail = nil
	if _, err := r.Resolve(ctx, errKey); err != nil {
		t.Fatalf("cached failure should be retried: %v", err)
	}
	if stub.calls[errKey] != 2 {
		t.Fatalf("calls for failed key: %d", stub.calls[errKey])
	}

	if _, err := r.Refetch(ctx, key); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stub.calls[key] != 2 {
		t.Fatal("refetch should hit the network")
	}
}

func TestOfflineMissIsOfflineError(t *testing.T) {
	stub := newStubPosts()
	r := NewResolver(NewCache[PaginationKey, domain.PostPage](), offline.NewMemory(), &netFlag{}, stub.fetch, nil)

	_, err := r.Resolve(context.Background(), NewPaginationKey(hot, FirstPage))
	if !errors.Is(err, apperr.ErrOffline) {
		t.Fatalf("expected offline error, got %v", err)
	}
	if errors.Is(err, apperr.ErrNetwork) {
		t.Fatal("offline miss must not be a network error")
	}
	if stub.total() != 0 {
		t.Fatal("offline lookup must not fetch")
	}
}

func TestOfflineServesWriteThroughCopy(t *testing.T) {
	stub := newStubPosts()
	store := offline.NewMemory()
	net := &netFlag{online: true}
	ctx := context.Background()
	key := NewPaginationKey(hot, FirstPage)

	online := NewResolver(NewCache[PaginationKey, domain.PostPage](), store, net, stub.fetch, nil)
	if _, err := online.Resolve(ctx, key); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store.Len(offline.NSQueryGets) != 1 {
		t.Fatal("success should be written through to the offline store")
	}

	// A fresh session with an empty memory cache.
	net.set(false)
	fresh := NewResolver(NewCache[PaginationKey, domain.PostPage](), store, net, stub.fetch, nil)
	pp, err := fresh.Resolve(ctx, key)
	if err != nil {
		t.Fatalf("offline resolve: %v", err)
	}
	if len(pp.Posts) != 1 || pp.NextCursor == nil || *pp.NextCursor != "tokenA" {
		t.Fatalf("unexpected offline page %+v", pp)
	}
	if stub.total() != 1 {
		t.Fatal("offline resolve must not fetch")
	}
}

func TestCorruptOfflineCopyIsMiss(t *testing.T) {
	store := offline.NewMemory()
	ctx := context.Background()
	key := NewPaginationKey(hot, FirstPage)
	sk, _ := offline.Key(key)
	_ = store.Set(ctx, offline.NSQueryGets, sk, []byte(`{"posts":"nope"}`))

	r := NewResolver(NewCache[PaginationKey, domain.PostPage](), store, &netFlag{}, newStubPosts().fetch, nil)
	if _, err := r.Resolve(ctx, key); !errors.Is(err, apperr.ErrOffline) {
		t.Fatalf("corrupt copy should be a miss, got %v", err)
	}
}

func TestFeedPaginationExample(t *testing.T) {
	stub := newStubPosts()
	f := NewFeed(stub.fetch, offline.NewMemory(), &netFlag{online: true}, DefaultStride, nil)
	ctx := context.Background()

	res := f.Load(ctx, hot, nil)
	if len(res) != 1 || res[0].Err != nil || res[0].Page != FirstPage {
		t.Fatalf("first load: %+v", res)
	}
	if f.Cache().Len() != 1 {
		t.Fatalf("cache entries: %d", f.Cache().Len())
	}

	pages, grew := f.Advance(hot)
	if !grew {
		t.Fatal("advance should append the frontier")
	}
	want := Pages{{0, ""}, {50, "tokenA"}}
	if EncodePages(pages) != EncodePages(want) {
		t.Fatalf("pages: %s", EncodePages(pages))
	}
	if _, grew := f.Advance(hot); grew {
		t.Fatal("advance without a new frontier must not grow")
	}

	res = f.Load(ctx, hot, pages)
	if len(res) != 2 || res[1].Err != nil {
		t.Fatalf("second load: %+v", res)
	}
	if f.Cache().Len() != 2 {
		t.Fatalf("cache entries: %d", f.Cache().Len())
	}
	for _, k := range f.Cache().Keys() {
		if k.Context() != hot {
			t.Fatalf("unexpected context %+v", k.Context())
		}
	}
	if stub.calls[NewPaginationKey(hot, FirstPage)] != 1 {
		t.Fatal("first page should come from cache on the second load")
	}

	next, ok := f.Next(hot)
	if !ok || next != (Page{Index: 100, Cursor: "tokenB"}) {
		t.Fatalf("frontier: %+v %v", next, ok)
	}
}

func TestFeedContextChangePrunes(t *testing.T) {
	stub := newStubPosts()
	f := NewFeed(stub.fetch, offline.NewMemory(), &netFlag{online: true}, DefaultStride, nil)
	ctx := context.Background()

	f.Load(ctx, hot, Pages{{0, ""}, {50, "tokenA"}})
	newest := hot
	newest.Sort = domain.SortNew
	f.Load(ctx, newest, nil)

	for _, k := range f.Cache().Keys() {
		if k.Sort == domain.SortHot {
			t.Fatal("entries of the old sort must be pruned")
		}
	}
	if _, ok := f.Next(hot); ok {
		t.Fatal("stale frontier must not be handed out")
	}
	if _, grew := f.Advance(hot); grew {
		t.Fatal("advance for an abandoned context must not grow")
	}
}

func TestFeedKeepsRequestedPagesOnSameContext(t *testing.T) {
	stub := newStubPosts()
	f := NewFeed(stub.fetch, offline.NewMemory(), &netFlag{online: true}, DefaultStride, nil)
	ctx := context.Background()
	pages := Pages{{0, ""}, {50, "tokenA"}}

	f.Load(ctx, hot, pages)
	f.Load(ctx, hot, pages)
	if stub.total() != 2 {
		t.Fatalf("navigating back to the same view should not refetch, calls=%d", stub.total())
	}
}

func TestFeedBackNavigationRebuildsFrontier(t *testing.T) {
	stub := newStubPosts()
	f := NewFeed(stub.fetch, offline.NewMemory(), &netFlag{online: true}, DefaultStride, nil)
	ctx := context.Background()

	f.Load(ctx, hot, nil)
	pages, _ := f.Advance(hot)
	f.Load(ctx, hot, pages)
	pages, _ = f.Advance(hot)
	if len(pages) != 3 {
		t.Fatalf("pages: %s", EncodePages(pages))
	}
	f.Load(ctx, hot, pages)

	// back to the first page of the same view
	f.Load(ctx, hot, Pages{FirstPage})
	if f.Cache().Len() != 1 {
		t.Fatalf("cache entries after back navigation: %d", f.Cache().Len())
	}
	next, ok := f.Next(hot)
	if !ok || next != (Page{Index: 50, Cursor: "tokenA"}) {
		t.Fatalf("frontier after back navigation: %+v %v", next, ok)
	}
	pages, grew := f.Advance(hot)
	want := Pages{{0, ""}, {50, "tokenA"}}
	if !grew || EncodePages(pages) != EncodePages(want) {
		t.Fatalf("advance after back navigation: %s grew=%v", EncodePages(pages), grew)
	}

	// back to two pages: the frontier follows the furthest one
	f.Load(ctx, hot, Pages{{0, ""}, {50, "tokenA"}, {100, "tokenB"}})
	f.Load(ctx, hot, want)
	if next, ok := f.Next(hot); !ok || next != (Page{Index: 100, Cursor: "tokenB"}) {
		t.Fatalf("frontier after trimming to two pages: %+v %v", next, ok)
	}
}

func TestFeedNilStoreDefaultsToMemory(t *testing.T) {
	stub := newStubPosts()
	net := &netFlag{online: true}
	f := NewFeed(stub.fetch, nil, net, DefaultStride, nil)
	ctx := context.Background()

	if res := f.Load(ctx, hot, nil); res[0].Err != nil {
		t.Fatalf("online load: %v", res[0].Err)
	}
	net.set(false)
	if res := f.Refetch(ctx, hot, nil); res[0].Err != nil || len(res[0].Posts) != 1 {
		t.Fatalf("offline copy should come from the default store: %+v", res[0])
	}
}

func TestTrackerIgnoresStaleContext(t *testing.T) {
	tr := NewTracker(0)
	if tr.Stride() != DefaultStride {
		t.Fatalf("stride: %d", tr.Stride())
	}
	tokenA := "tokenA"
	tr.Reset(hot)
	other := hot
	other.Scope = "rust"
	tr.Observe(other, 0, &tokenA)
	if _, ok := tr.Next(hot); ok {
		t.Fatal("observation of another context leaked")
	}
	tr.Observe(hot, 0, &tokenA)
	if p, ok := tr.Next(hot); !ok || p != (Page{Index: 50, Cursor: "tokenA"}) {
		t.Fatalf("frontier: %+v", p)
	}
	tr.Observe(hot, 50, nil)
	if _, ok := tr.Next(hot); ok {
		t.Fatal("nil cursor on the last page ends the feed")
	}
	tr.Observe(hot, 0, &tokenA)
	if _, ok := tr.Next(hot); ok {
		t.Fatal("an earlier page must not reopen an exhausted feed")
	}
}

func TestPagesParam(t *testing.T) {
	ps, err := DecodePages(`[[0,""],[50,"tokenA"]]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ps) != 2 || ps[1] != (Page{Index: 50, Cursor: "tokenA"}) {
		t.Fatalf("decoded %+v", ps)
	}
	if got := EncodePages(ps); got != `[[0,""],[50,"tokenA"]]` {
		t.Fatalf("encoded %s", got)
	}
	if ps, err := DecodePages(""); err != nil || ps != nil {
		t.Fatal("empty param is an empty list")
	}
	if EncodePages(nil) != "[]" {
		t.Fatal("nil encodes as []")
	}
	for _, bad := range []string{`[[0]]`, `{"a":1}`, `[["x",""]]`, `[[-50,""]]`, `[[0,""`} {
		if _, err := DecodePages(bad); !errors.Is(err, apperr.ErrParams) {
			t.Fatalf("%s: expected params error, got %v", bad, err)
		}
	}
	if ps, err := DecodePages(`[[0,null]]`); err != nil || ps[0].Cursor != "" {
		t.Fatalf("null cursor: %+v %v", ps, err)
	}
}

func TestCacheRetainAndClear(t *testing.T) {
	c := NewCache[int, string]()
	for i := 0; i < 5; i++ {
		c.Set(i, Entry[string]{})
	}
	if n := c.Retain(func(k int, _ Entry[string]) bool { return k%2 == 0 }); n != 2 {
		t.Fatalf("dropped %d", n)
	}
	if c.Len() != 3 {
		t.Fatalf("len %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatal("clear")
	}
}
