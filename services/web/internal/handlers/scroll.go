package handlers

import (
	"net/http"

	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

type scrollBody struct {
	Path   string `json:"path"`
	Query  string `json:"query"`
	Offset int    `json:"offset"`
}

type scrollResp struct {
	scrollBody
	Saved bool `json:"saved"`
}

// GetScroll returns the saved offset of the view ?path=&query=.
func GetScroll(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		q := r.URL.Query()
		path := q.Get("path")
		if path == "" {
			api.BadRequest(w, "INVALID_PARAMS", "path is required", rid, nil)
			return
		}
		offset, ok := sessionOf(app, w, r).LoadScroll(r.Context(), path, q.Get("query"))
		api.WriteJSON(w, http.StatusOK, scrollResp{
			scrollBody: scrollBody{Path: path, Query: q.Get("query"), Offset: offset},
			Saved:      ok,
		})
	}
}

func PutScroll(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		var req scrollBody
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if req.Path == "" || req.Offset < 0 {
			api.BadRequest(w, "INVALID_PARAMS", "path is required and offset must not be negative", rid, nil)
			return
		}
		sessionOf(app, w, r).SaveScroll(r.Context(), req.Path, req.Query, req.Offset)
		w.WriteHeader(http.StatusNoContent)
	}
}
