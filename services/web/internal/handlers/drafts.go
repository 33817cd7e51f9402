package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/forum-client/internal/drafts"
	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

type draftBody struct {
	Text string `json:"text"`
}

type draftResp struct {
	drafts.Key
	Text string `json:"text"`
}

// draftKey reads {kind}/{id}. Post drafts are keyed by post id, the other
// kinds by comment id.
func draftKey(w http.ResponseWriter, r *http.Request, rid string) (drafts.Key, bool) {
	kind, err := drafts.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		api.BadRequest(w, "INVALID_PARAMS", err.Error(), rid, nil)
		return drafts.Key{}, false
	}
	id, ok := idParam(w, r, rid, "id")
	if !ok {
		return drafts.Key{}, false
	}
	return drafts.Key{CommentID: id, Kind: kind}, true
}

func GetDraft(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		key, ok := draftKey(w, r, rid)
		if !ok {
			return
		}
		text := sessionOf(app, w, r).Draft(r.Context(), key)
		api.WriteJSON(w, http.StatusOK, draftResp{Key: key, Text: text})
	}
}

// PutDraft stores composer text. Clients call it on every keystroke.
func PutDraft(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		key, ok := draftKey(w, r, rid)
		if !ok {
			return
		}
		var req draftBody
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		sessionOf(app, w, r).UpdateDraft(r.Context(), key, req.Text)
		w.WriteHeader(http.StatusNoContent)
	}
}
