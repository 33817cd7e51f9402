// Package events publishes fire-and-forget cache invalidation events so
// that other shells sharing the upstream forum drop stale entries.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubjectCacheInvalidate carries Invalidation envelopes.
const SubjectCacheInvalidate = "forum.cache.invalidate"

// Invalidation scopes. ScopeAll is never published by the shell itself; it
// is for operator tooling that needs every instance to drop its caches.
const (
	ScopeThread  = "thread"
	ScopeListing = "listing"
	ScopeAll     = "all"
)

// Invalidation is the envelope sent on SubjectCacheInvalidate.
type Invalidation struct {
	EventID    string    `json:"event_id"`
	Scope      string    `json:"scope"`
	PostID     int64     `json:"post_id,omitempty"`
	Origin     string    `json:"origin,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher sends invalidation events. The zero value and a nil pointer are
// both safe no-op stubs.
type Publisher struct {
	nc     Conn
	origin string
	log    *zap.Logger
}

// New creates a Publisher. origin identifies this instance so it can ignore
// its own events. Pass nc=nil for a no-op publisher.
func New(nc Conn, origin string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{nc: nc, origin: origin, log: log}
}

// Origin returns the instance id stamped on published events.
func (p *Publisher) Origin() string {
	if p == nil {
		return ""
	}
	return p.origin
}

// Publish sends one invalidation. Failures are logged and never surface.
func (p *Publisher) Publish(scope string, postID int64) {
	if p == nil || p.nc == nil {
		return
	}
	ev := Invalidation{
		EventID:    uuid.NewString(),
		Scope:      scope,
		PostID:     postID,
		Origin:     p.origin,
		OccurredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("scope", scope), zap.Error(err))
		return
	}
	if err := p.nc.Publish(SubjectCacheInvalidate, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", SubjectCacheInvalidate), zap.Error(err))
	}
}
