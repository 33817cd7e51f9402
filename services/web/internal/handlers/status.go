package handlers

import (
	"net/http"

	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/session"
)

// Status reports whether the forum is reachable; clients show the offline
// banner from it.
func Status(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]any{
			"online":   app.Online(),
			"sessions": app.Sessions().Len(),
		})
	}
}
