package handlers

import (
	"net/http"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

// GetThread renders a post's comments as the rows visible under the
// caller's collapsed set.
func GetThread(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID, ok := idParam(w, r, rid, "post_id")
		if !ok {
			return
		}
		sort := domain.ParseCommentSortType(r.URL.Query().Get("sort"))
		th, err := sessionOf(app, w, r).Thread(r.Context(), postID, sort)
		if err != nil {
			writeError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, th)
	}
}

type collapsedResp struct {
	PostID    int64   `json:"post_id"`
	Collapsed []int64 `json:"collapsed"`
}

type toggleCollapsedResp struct {
	collapsedResp
	CommentID   int64 `json:"comment_id"`
	IsCollapsed bool  `json:"is_collapsed"`
}

// ToggleCollapsed folds or unfolds one comment's branch.
func ToggleCollapsed(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID, ok := idParam(w, r, rid, "post_id")
		if !ok {
			return
		}
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		folded, ids := sessionOf(app, w, r).ToggleCollapsed(r.Context(), postID, commentID)
		api.WriteJSON(w, http.StatusOK, toggleCollapsedResp{
			collapsedResp: collapsedResp{PostID: postID, Collapsed: ids},
			CommentID:     commentID,
			IsCollapsed:   folded,
		})
	}
}

func GetCollapsed(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID, ok := idParam(w, r, rid, "post_id")
		if !ok {
			return
		}
		ids := sessionOf(app, w, r).Collapsed(r.Context(), postID)
		api.WriteJSON(w, http.StatusOK, collapsedResp{PostID: postID, Collapsed: ids})
	}
}

type setCollapsedReq struct {
	Collapsed []int64 `json:"collapsed"`
}

// SetCollapsed replaces the whole collapsed list of a post.
func SetCollapsed(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID, ok := idParam(w, r, rid, "post_id")
		if !ok {
			return
		}
		var req setCollapsedReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		ids := sessionOf(app, w, r).SetCollapsed(r.Context(), postID, req.Collapsed)
		api.WriteJSON(w, http.StatusOK, collapsedResp{PostID: postID, Collapsed: ids})
	}
}
