// Package drafts keeps unsent comment text so a reader can close a
// composer, lose the network or reload and find their words intact.
package drafts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/logging"
)

// Kind is what the draft will become when submitted.
type Kind string

const (
	Reply Kind = "Reply"
	Edit  Kind = "Edit"
	Post  Kind = "Post"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Reply, Edit, Post:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown draft kind %q", s)
}

// Key identifies a draft: the comment it is attached to and what it is.
type Key struct {
	CommentID int64 `json:"comment_id"`
	Kind      Kind  `json:"draft"`
}

type record struct {
	Value *string `json:"value"`
}

type Store struct {
	store offline.Store
	log   *zap.Logger
}

func NewStore(s offline.Store, log *zap.Logger) *Store {
	return &Store{store: s, log: logging.OrNop(log)}
}

// Load returns the saved text for key, or "" when there is none or the
// record cannot be read.
func (s *Store) Load(ctx context.Context, key Key) string {
	var rec record
	ok, err := offline.GetJSON(ctx, s.store, offline.NSCommentDrafts, key, &rec)
	if err != nil {
		s.log.Warn("load draft", zap.Int64("comment_id", key.CommentID),
			zap.String("kind", string(key.Kind)), zap.Error(err))
		return ""
	}
	if !ok || rec.Value == nil {
		return ""
	}
	return *rec.Value
}

// Update saves text for key. It is called on every keystroke.
func (s *Store) Update(ctx context.Context, key Key, text string) {
	if err := offline.SetJSON(ctx, s.store, offline.NSCommentDrafts, key, record{Value: &text}); err != nil {
		s.log.Warn("save draft", zap.Int64("comment_id", key.CommentID),
			zap.String("kind", string(key.Kind)), zap.Error(err))
	}
}

// Discard drops the draft after a successful submit.
func (s *Store) Discard(ctx context.Context, key Key) {
	if err := offline.DeleteKey(ctx, s.store, offline.NSCommentDrafts, key); err != nil {
		s.log.Warn("discard draft", zap.Int64("comment_id", key.CommentID),
			zap.String("kind", string(key.Kind)), zap.Error(err))
	}
}
