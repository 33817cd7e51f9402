package domain

import (
	"strings"
	"time"
)

// Comment is one entry of a discussion as returned by the forum. Path is
// the dot-separated ancestor chain ending in the comment's own id; forum
// paths start with the virtual root segment "0".
type Comment struct {
	ID            int64     `json:"id"`
	PostID        int64     `json:"post_id"`
	Path          string    `json:"path"`
	Content       string    `json:"content"`
	AuthorID      int64     `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	Score         int64     `json:"score"`
	MyVote        int16     `json:"my_vote,omitempty"`
	Saved         bool      `json:"saved"`
	Deleted       bool      `json:"deleted"`
	Removed       bool      `json:"removed"`
	CreatorBanned bool      `json:"creator_banned"`
	Published     time.Time `json:"published"`
}

// Depth is the number of ancestors encoded in Path.
func (c Comment) Depth() int {
	if c.Path == "" {
		return -1
	}
	return strings.Count(c.Path, ".")
}

type Post struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url,omitempty"`
	Body          string    `json:"body,omitempty"`
	CommunityName string    `json:"community_name"`
	AuthorID      int64     `json:"author_id"`
	Score         int64     `json:"score"`
	Comments      int64     `json:"comments"`
	MyVote        int16     `json:"my_vote,omitempty"`
	Saved         bool      `json:"saved"`
	Published     time.Time `json:"published"`
}

// PostPage is one cursor page of a post listing. NextCursor is nil on the
// last page.
type PostPage struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"next_page,omitempty"`
}

type ListingType string

const (
	ListingAll        ListingType = "All"
	ListingLocal      ListingType = "Local"
	ListingSubscribed ListingType = "Subscribed"
	ListingModerator  ListingType = "ModeratorView"
)

// ParseListingType falls back to ListingAll for unknown input.
func ParseListingType(s string) ListingType {
	switch ListingType(s) {
	case ListingLocal, ListingSubscribed, ListingModerator:
		return ListingType(s)
	default:
		return ListingAll
	}
}

type SortType string

const (
	SortActive       SortType = "Active"
	SortHot          SortType = "Hot"
	SortNew          SortType = "New"
	SortOld          SortType = "Old"
	SortTopDay       SortType = "TopDay"
	SortTopWeek      SortType = "TopWeek"
	SortTopAll       SortType = "TopAll"
	SortMostComments SortType = "MostComments"
	SortScaled       SortType = "Scaled"
)

var sortTypes = map[SortType]struct{}{
	SortActive: {}, SortHot: {}, SortNew: {}, SortOld: {}, SortTopDay: {},
	SortTopWeek: {}, SortTopAll: {}, SortMostComments: {}, SortScaled: {},
}

// ParseSortType falls back to SortActive for unknown input.
func ParseSortType(s string) SortType {
	if _, ok := sortTypes[SortType(s)]; ok {
		return SortType(s)
	}
	return SortActive
}

type CommentSortType string

const (
	CommentSortHot           CommentSortType = "Hot"
	CommentSortTop           CommentSortType = "Top"
	CommentSortNew           CommentSortType = "New"
	CommentSortOld           CommentSortType = "Old"
	CommentSortControversial CommentSortType = "Controversial"
)

// ParseCommentSortType falls back to CommentSortHot for unknown input.
func ParseCommentSortType(s string) CommentSortType {
	switch CommentSortType(s) {
	case CommentSortTop, CommentSortNew, CommentSortOld, CommentSortControversial:
		return CommentSortType(s)
	default:
		return CommentSortHot
	}
}
