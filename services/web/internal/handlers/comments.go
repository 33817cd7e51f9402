package handlers

import (
	"net/http"

	"github.com/example/forum-client/internal/disclosure"
	"github.com/example/forum-client/internal/drafts"
	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

type replyReq struct {
	ParentID *int64 `json:"parent_id,omitempty"`
	Content  string `json:"content"`
}

// CreateComment posts a reply under parent_id, or a top-level comment.
func CreateComment(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID, ok := idParam(w, r, rid, "post_id")
		if !ok {
			return
		}
		var req replyReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		c, err := sessionOf(app, w, r).SubmitReply(r.Context(), postID, req.ParentID, req.Content)
		if err != nil {
			writeError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, c)
	}
}

type editReq struct {
	Content string `json:"content"`
}

func EditComment(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		var req editReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		c, err := sessionOf(app, w, r).SubmitEdit(r.Context(), commentID, req.Content)
		if err != nil {
			writeError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

type voteReq struct {
	Direction int16 `json:"direction"`
}

// VoteComment presses the up (1) or down (-1) button; pressing the
// caller's current direction again clears the vote.
func VoteComment(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		var req voteReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if req.Direction != 1 && req.Direction != -1 {
			api.BadRequest(w, "INVALID_PARAMS", "direction must be 1 or -1", rid, map[string]any{"direction": req.Direction})
			return
		}
		c, err := sessionOf(app, w, r).VoteComment(r.Context(), commentID, req.Direction)
		if err != nil {
			writeError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

// SaveComment toggles the caller's saved flag.
func SaveComment(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		c, err := sessionOf(app, w, r).SaveComment(r.Context(), commentID)
		if err != nil {
			writeError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

type composerReq struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
}

type interactionResp struct {
	CommentID   int64                  `json:"comment_id"`
	Interaction disclosure.Interaction `json:"interaction"`
	Draft       *string                `json:"draft,omitempty"`
}

// Composer toggles, opens or closes the reply/edit composer under a
// comment. Opening returns the saved draft.
func Composer(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		var req composerReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		s := sessionOf(app, w, r)
		out := interactionResp{CommentID: commentID}
		if req.Action == "close" {
			out.Interaction = s.CloseComposer(commentID)
			api.WriteJSON(w, http.StatusOK, out)
			return
		}
		kind, err := drafts.ParseKind(req.Kind)
		if err != nil || kind == drafts.Post {
			api.BadRequest(w, "INVALID_PARAMS", "kind must be Reply or Edit", rid, map[string]any{"kind": req.Kind})
			return
		}
		var text string
		switch req.Action {
		case "", "toggle":
			out.Interaction, text = s.ToggleComposer(r.Context(), commentID, kind)
		case "open":
			out.Interaction, text = s.OpenComposer(r.Context(), commentID, kind)
		default:
			api.BadRequest(w, "INVALID_PARAMS", "action must be toggle, open or close", rid, map[string]any{"action": req.Action})
			return
		}
		if out.Interaction.Composer != disclosure.Idle {
			out.Draft = &text
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}

func ToggleVoteMenu(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		st := sessionOf(app, w, r).ToggleVoteMenu(commentID)
		api.WriteJSON(w, http.StatusOK, interactionResp{CommentID: commentID, Interaction: st})
	}
}

func GetInteraction(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID, ok := idParam(w, r, rid, "comment_id")
		if !ok {
			return
		}
		st := sessionOf(app, w, r).Interaction(commentID)
		api.WriteJSON(w, http.StatusOK, interactionResp{CommentID: commentID, Interaction: st})
	}
}
