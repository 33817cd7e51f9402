package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Unavailable(rr, http.StatusServiceUnavailable, "OFFLINE", "App is offline at the moment", "rid-1")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "OFFLINE" || !resp.Error.Retryable || resp.Error.RequestID != "rid-1" {
		t.Fatalf("unexpected envelope: %+v", resp.Error)
	}
}

func TestBadRequest_Details(t *testing.T) {
	rr := httptest.NewRecorder()
	BadRequest(rr, "INVALID_PARAMS", "bad page", "", map[string]any{"page": "not json"})

	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Details["page"] != "not json" {
		t.Fatalf("expected details to round trip, got %+v", resp.Error.Details)
	}
	if resp.Error.Retryable {
		t.Fatal("bad request must not be retryable")
	}
}
