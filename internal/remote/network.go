package remote

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/platform/logging"
)

// Status is the process-wide view of whether the forum is reachable.
// Reads are a single atomic load so callers check it before every fetch.
type Status struct {
	online atomic.Bool
	log    *zap.Logger
}

func NewStatus(online bool, log *zap.Logger) *Status {
	s := &Status{log: logging.OrNop(log)}
	s.online.Store(online)
	return s
}

func (s *Status) Online() bool { return s.online.Load() }

// Set records connectivity and reports whether it changed.
func (s *Status) Set(online bool) bool {
	if s.online.Swap(online) == online {
		return false
	}
	if online {
		s.log.Info("forum reachable, leaving offline mode")
	} else {
		s.log.Warn("forum unreachable, serving offline copies")
	}
	return true
}
