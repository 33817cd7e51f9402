package listing

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/forum-client/internal/platform/events"
	"github.com/example/forum-client/internal/platform/logging"
)

// InvalidationHandler drops cached entries named by an invalidation event.
type InvalidationHandler interface {
	InvalidateThread(postID int64)
	InvalidateListings()
	InvalidateAll()
}

// Invalidator applies invalidation events published by other shells.
// Events carrying this shell's own origin are ignored.
type Invalidator struct {
	origin  string
	handler InvalidationHandler
	log     *zap.Logger
}

func NewInvalidator(origin string, h InvalidationHandler, log *zap.Logger) *Invalidator {
	return &Invalidator{origin: origin, handler: h, log: logging.OrNop(log)}
}

// Subscribe wires the invalidator to nc.
func (i *Invalidator) Subscribe(nc *nats.Conn) (*nats.Subscription, error) {
	return nc.Subscribe(events.SubjectCacheInvalidate, func(m *nats.Msg) {
		i.Handle(m.Data)
	})
}

// Handle applies one raw event and reports whether it changed anything.
func (i *Invalidator) Handle(data []byte) bool {
	var ev events.Invalidation
	if err := json.Unmarshal(data, &ev); err != nil {
		i.log.Warn("invalidation: bad payload", zap.Error(err))
		return false
	}
	if ev.Origin != "" && ev.Origin == i.origin {
		return false
	}
	switch ev.Scope {
	case events.ScopeThread:
		if ev.PostID == 0 {
			return false
		}
		i.handler.InvalidateThread(ev.PostID)
	case events.ScopeListing:
		i.handler.InvalidateListings()
	case events.ScopeAll:
		i.handler.InvalidateAll()
	default:
		i.log.Debug("invalidation: unknown scope", zap.String("scope", ev.Scope))
		return false
	}
	return true
}
