package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := Offlinef("listing.load", "no cached page")
	if !errors.Is(err, ErrOffline) {
		t.Fatal("expected offline")
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatal("offline must not match network")
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("thread: %w", New(Network, "remote.get", errors.New("dial tcp: refused")))
	if !errors.Is(err, ErrNetwork) {
		t.Fatal("expected network through wrap")
	}
	if KindOf(err) != Network {
		t.Fatalf("unexpected kind %v", KindOf(err))
	}
}

func TestIs_APICode(t *testing.T) {
	err := APIError("remote.vote", "couldnt_find_comment")
	if !errors.Is(err, ErrAPI) {
		t.Fatal("expected api kind match")
	}
	if !errors.Is(err, &Error{Kind: API, Code: "couldnt_find_comment"}) {
		t.Fatal("expected code match")
	}
	if errors.Is(err, &Error{Kind: API, Code: "incorrect_login"}) {
		t.Fatal("different code must not match")
	}
	if Code(err) != "couldnt_find_comment" {
		t.Fatalf("unexpected code %q", Code(err))
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	if KindOf(errors.New("plain")) != Unknown {
		t.Fatal("plain errors are unknown")
	}
	if Code(errors.New("plain")) != "" {
		t.Fatal("plain errors have no code")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Fatal("nil is not retryable")
	}
	if Retryable(Paramsf("pages", "bad json")) {
		t.Fatal("params errors are not retryable")
	}
	for _, err := range []error{ErrOffline, ErrNetwork, APIError("x", "rate_limit_error"), errors.New("?")} {
		if !Retryable(err) {
			t.Fatalf("%v should be retryable", err)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := APIError("remote.list_posts", "not_logged_in")
	if got := err.Error(); got != "remote.list_posts: api(not_logged_in)" {
		t.Fatalf("unexpected message %q", got)
	}
}
