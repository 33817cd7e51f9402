package listing

import "sync"

// DefaultStride is the number of posts per page and so the distance
// between consecutive page indexes.
const DefaultStride = 50

// Tracker remembers the next fetchable page of the active query context.
// The frontier of any other context is never handed out.
type Tracker struct {
	stride int

	mu     sync.Mutex
	active QueryContext
	last   int
	next   *Page
}

func NewTracker(stride int) *Tracker {
	if stride <= 0 {
		stride = DefaultStride
	}
	return &Tracker{stride: stride}
}

func (t *Tracker) Stride() int { return t.stride }

// Reset makes qc the active context and forgets the frontier.
func (t *Tracker) Reset(qc QueryContext) {
	t.mu.Lock()
	t.active = qc
	t.last = 0
	t.next = nil
	t.mu.Unlock()
}

// Observe records that the page at index resolved with nextCursor. Pages
// of a stale context and pages behind the current frontier are ignored. A
// nil cursor on the furthest page means the feed is exhausted.
// Observing the same index again (a refetch) replaces its frontier.
func (t *Tracker) Observe(qc QueryContext, index int, nextCursor *string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if qc != t.active {
		return
	}
	if index < t.last {
		return
	}
	t.last = index
	if nextCursor == nil {
		t.next = nil
		return
	}
	t.next = &Page{Index: index + t.stride, Cursor: *nextCursor}
}

// Next returns the frontier for qc.
func (t *Tracker) Next(qc QueryContext) (Page, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if qc != t.active || t.next == nil {
		return Page{}, false
	}
	return *t.next, true
}
