package disclosure

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/logging"
)

// Store persists collapsed sets per post in the post_closed_comments
// namespace, keyed by post id.
type Store struct {
	store offline.Store
	log   *zap.Logger
}

func NewStore(s offline.Store, log *zap.Logger) *Store {
	return &Store{store: s, log: logging.OrNop(log)}
}

// Load hydrates the set for postID. A missing, unreadable or corrupt record
// yields an empty set.
func (s *Store) Load(ctx context.Context, postID int64) *Set {
	var ids []int64
	ok, err := offline.GetJSON(ctx, s.store, offline.NSClosedComments, postID, &ids)
	if err != nil {
		s.log.Warn("collapsed comments unavailable",
			zap.Int64("post_id", postID), zap.Error(err))
		return NewSet()
	}
	if !ok {
		return NewSet()
	}
	return NewSet(ids...)
}

func (s *Store) Save(ctx context.Context, postID int64, set *Set) error {
	return offline.SetJSON(ctx, s.store, offline.NSClosedComments, postID, set.IDs())
}

// Toggle folds or unfolds id under postID, persists the result and returns
// the updated set. Persistence failures are logged; the returned set still
// reflects the toggle.
func (s *Store) Toggle(ctx context.Context, postID, id int64) (*Set, bool) {
	set := s.Load(ctx, postID)
	collapsed := set.Toggle(id)
	if err := s.Save(ctx, postID, set); err != nil {
		s.log.Warn("persist collapsed comments",
			zap.Int64("post_id", postID), zap.Int64("comment_id", id), zap.Error(err))
	}
	return set, collapsed
}
