// Package listing caches forum responses by the query context and page
// they were fetched for, merges cursor pages into an infinite feed and
// serves cached copies from the offline store while the network is down.
package listing

import "github.com/example/forum-client/internal/domain"

// QueryContext is everything about a post listing except the page.
// Auth is the identity's cache scope; results fetched for one identity
// are never served to another.
type QueryContext struct {
	Listing domain.ListingType `json:"listing"`
	Sort    domain.SortType    `json:"sort"`
	Scope   string             `json:"scope,omitempty"`
	Auth    string             `json:"auth"`
}

// PaginationKey is one cache slot of the feed.
type PaginationKey struct {
	Index  int    `json:"index"`
	Cursor string `json:"cursor"`
	QueryContext
}

func NewPaginationKey(qc QueryContext, p Page) PaginationKey {
	return PaginationKey{Index: p.Index, Cursor: p.Cursor, QueryContext: qc}
}

func (k PaginationKey) Context() QueryContext { return k.QueryContext }

func (k PaginationKey) Page() Page { return Page{Index: k.Index, Cursor: k.Cursor} }

// ThreadKey is one cache slot of a post's comment list.
type ThreadKey struct {
	PostID int64                  `json:"post_id"`
	Sort   domain.CommentSortType `json:"sort"`
	Auth   string                 `json:"auth"`
}
