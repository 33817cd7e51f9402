package handlers

import (
	"net/http"
	"strings"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/platform/api"
)

// forumStatus maps a forum error code to the status returned to callers.
func forumStatus(code string) int {
	switch {
	case code == "not_logged_in" || code == "incorrect_login" || code == "jwt_expired":
		return http.StatusUnauthorized
	case code == "no_comment_edit_allowed" || strings.HasSuffix(code, "_banned"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "couldnt_find_"):
		return http.StatusNotFound
	case code == "rate_limit_error":
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// classify renders err as the response envelope. Every kind but malformed
// parameters is retryable.
func classify(err error, rid string) (int, api.APIError) {
	e := api.APIError{RequestID: rid, Retryable: apperr.Retryable(err)}
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Offline:
		status, e.Code, e.Message = http.StatusServiceUnavailable, "OFFLINE", "The forum is unreachable and nothing is saved for this view"
	case apperr.Network:
		status, e.Code, e.Message = http.StatusBadGateway, "NETWORK", "Could not reach the forum"
	case apperr.API:
		code := apperr.Code(err)
		status, e.Code, e.Message = forumStatus(code), code, "The forum rejected the request"
	case apperr.Params:
		status, e.Code, e.Message = http.StatusBadRequest, "INVALID_PARAMS", err.Error()
	default:
		e.Code, e.Message = "INTERNAL", "Internal server error"
	}
	return status, e
}

func writeError(w http.ResponseWriter, rid string, err error) {
	status, e := classify(err, rid)
	api.WriteError(w, status, e)
}
