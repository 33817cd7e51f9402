// Package remote talks to the upstream forum. Every call is made on behalf
// of the identity carried in the context (see auth.WithIdentity).
package remote

import (
	"context"

	"github.com/example/forum-client/internal/domain"
)

// DefaultMaxDepth is the comment depth requested for a thread.
const DefaultMaxDepth = 128

type PostQuery struct {
	Listing   domain.ListingType
	Sort      domain.SortType
	Community string
	Cursor    string
	Limit     int
}

type CommentQuery struct {
	PostID   int64
	Sort     domain.CommentSortType
	MaxDepth int
}

// API is the forum surface the client core consumes. Mutations return the
// updated comment.
type API interface {
	ListPosts(ctx context.Context, q PostQuery) (domain.PostPage, error)
	GetComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error)
	VoteComment(ctx context.Context, commentID int64, score int16) (domain.Comment, error)
	SaveComment(ctx context.Context, commentID int64, save bool) (domain.Comment, error)
	CreateComment(ctx context.Context, postID int64, parentID *int64, content string) (domain.Comment, error)
	EditComment(ctx context.Context, commentID int64, content string) (domain.Comment, error)
	Ping(ctx context.Context) error
}
