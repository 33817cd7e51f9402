package session

import (
	"sync"
	"time"
)

// Registry holds live sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	create   func(id string) *Session
	now      func() time.Time
}

func newRegistry(create func(id string) *Session) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		create:   create,
		now:      time.Now,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = r.create(id)
		r.sessions[id] = s
	}
	s.touch(r.now())
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Each calls fn for a snapshot of the live sessions.
func (r *Registry) Each(fn func(*Session)) {
	r.mu.Lock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.Unlock()
	for _, s := range list {
		fn(s)
	}
}

// Sweep drops sessions idle for longer than idle and returns how many.
// Their persisted drafts and collapsed sets survive in the offline store.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
