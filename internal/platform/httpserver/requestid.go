package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ClientIDHeader carries the anonymous client identity that scopes
// per-session state (collapsed comments, drafts, scroll positions).
const ClientIDHeader = "X-Client-Id"

type ctxKeyRequestID struct{}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return v
}

func RequestIDMiddleware(headerName string) func(next http.Handler) http.Handler {
	if strings.TrimSpace(headerName) == "" {
		headerName = "X-Request-Id"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(headerName))
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(headerName, rid)
			ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientID returns the caller's client id, minting one (and echoing it in
// the response) when the request carries none or an unparseable one.
func ClientID(w http.ResponseWriter, r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(ClientIDHeader))
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	id := uuid.NewString()
	w.Header().Set(ClientIDHeader, id)
	return id
}
