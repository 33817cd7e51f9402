package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads up to maxRequestBodyBytes from r.Body and decodes JSON into dst.
// On failure it writes a 400 response and returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, rid string, dst *T) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst); err != nil {
		api.BadRequest(w, "INVALID_JSON", "Invalid JSON", rid, nil)
		return false
	}
	return true
}

// idParam parses a numeric chi URL parameter, writing a 400 when it is
// missing or malformed.
func idParam(w http.ResponseWriter, r *http.Request, rid, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		api.BadRequest(w, "MISSING_ID", name+" is required", rid, nil)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.BadRequest(w, "INVALID_ID", name+" must be a positive integer", rid, map[string]any{name: raw})
		return 0, false
	}
	return id, true
}

// sessionOf returns the caller's session: their identity when logged in,
// otherwise the client id header (minted when absent).
func sessionOf(app *session.App, w http.ResponseWriter, r *http.Request) *session.Session {
	return app.Session(r.Context(), httpserver.ClientID(w, r))
}
