package remote

import (
	"time"

	"github.com/example/forum-client/internal/domain"
)

type wirePerson struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wireCommunity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wirePost struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Body      string    `json:"body,omitempty"`
	CreatorID int64     `json:"creator_id"`
	Published time.Time `json:"published"`
}

type wirePostCounts struct {
	Score    int64 `json:"score"`
	Comments int64 `json:"comments"`
}

type wirePostView struct {
	Post      wirePost       `json:"post"`
	Creator   wirePerson     `json:"creator"`
	Community wireCommunity  `json:"community"`
	Counts    wirePostCounts `json:"counts"`
	MyVote    *int16         `json:"my_vote,omitempty"`
	Saved     bool           `json:"saved"`
}

type wireComment struct {
	ID        int64     `json:"id"`
	CreatorID int64     `json:"creator_id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	Removed   bool      `json:"removed"`
	Deleted   bool      `json:"deleted"`
	Path      string    `json:"path"`
	Published time.Time `json:"published"`
}

type wireCommentCounts struct {
	Score int64 `json:"score"`
}

type wireCommentView struct {
	Comment                    wireComment       `json:"comment"`
	Creator                    wirePerson        `json:"creator"`
	Counts                     wireCommentCounts `json:"counts"`
	CreatorBannedFromCommunity bool              `json:"creator_banned_from_community"`
	MyVote                     *int16            `json:"my_vote,omitempty"`
	Saved                      bool              `json:"saved"`
}

type listPostsResponse struct {
	Posts    []wirePostView `json:"posts"`
	NextPage *string        `json:"next_page,omitempty"`
}

type getCommentsResponse struct {
	Comments []wireCommentView `json:"comments"`
}

type commentResponse struct {
	CommentView wireCommentView `json:"comment_view"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type likeCommentRequest struct {
	CommentID int64 `json:"comment_id"`
	Score     int16 `json:"score"`
}

type saveCommentRequest struct {
	CommentID int64 `json:"comment_id"`
	Save      bool  `json:"save"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	PostID   int64  `json:"post_id"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type editCommentRequest struct {
	CommentID int64  `json:"comment_id"`
	Content   string `json:"content"`
}

func vote(v *int16) int16 {
	if v == nil {
		return 0
	}
	return *v
}

func (v wirePostView) toDomain() domain.Post {
	return domain.Post{
		ID:            v.Post.ID,
		Name:          v.Post.Name,
		URL:           v.Post.URL,
		Body:          v.Post.Body,
		CommunityName: v.Community.Name,
		AuthorID:      v.Post.CreatorID,
		Score:         v.Counts.Score,
		Comments:      v.Counts.Comments,
		MyVote:        vote(v.MyVote),
		Saved:         v.Saved,
		Published:     v.Post.Published,
	}
}

func (v wireCommentView) toDomain() domain.Comment {
	return domain.Comment{
		ID:            v.Comment.ID,
		PostID:        v.Comment.PostID,
		Path:          v.Comment.Path,
		Content:       v.Comment.Content,
		AuthorID:      v.Comment.CreatorID,
		AuthorName:    v.Creator.Name,
		Score:         v.Counts.Score,
		MyVote:        vote(v.MyVote),
		Saved:         v.Saved,
		Deleted:       v.Comment.Deleted,
		Removed:       v.Comment.Removed,
		CreatorBanned: v.CreatorBannedFromCommunity,
		Published:     v.Comment.Published,
	}
}
