package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/platform/auth"
)

func TestHTTPClient_ListPosts(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/post/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"posts": [{
				"post": {"id": 7, "name": "hello", "creator_id": 3, "published": "2024-01-02T03:04:05Z"},
				"creator": {"id": 3, "name": "ann"},
				"community": {"id": 1, "name": "golang"},
				"counts": {"score": 12, "comments": 4},
				"my_vote": 1,
				"saved": true
			}],
			"next_page": "tokenA"
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 0)
	ctx := auth.WithIdentity(context.Background(), auth.Identity{Subject: "3", Token: "jwt-abc"})
	page, err := c.ListPosts(ctx, PostQuery{Listing: domain.ListingAll, Sort: domain.SortHot, Community: "golang", Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer jwt-abc" {
		t.Fatalf("authorization header %q", gotAuth)
	}
	if gotQuery != "community_name=golang&limit=50&sort=Hot&type_=All" {
		t.Fatalf("query %q", gotQuery)
	}
	if len(page.Posts) != 1 || page.NextCursor == nil || *page.NextCursor != "tokenA" {
		t.Fatalf("unexpected page %+v", page)
	}
	p := page.Posts[0]
	if p.ID != 7 || p.CommunityName != "golang" || p.Score != 12 || p.MyVote != 1 || !p.Saved {
		t.Fatalf("unexpected post %+v", p)
	}
}

func TestHTTPClient_GetCommentsAndVote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/comment/list":
			if r.URL.Query().Get("max_depth") != "128" || r.URL.Query().Get("post_id") != "9" {
				t.Errorf("query %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"comments":[
				{"comment":{"id":1,"post_id":9,"path":"0.1","content":"a"},"counts":{"score":2}},
				{"comment":{"id":2,"post_id":9,"path":"0.1.2","content":"b","deleted":true},"counts":{"score":0},"creator_banned_from_community":true}
			]}`))
		case "/api/v3/comment/like":
			if r.Method != http.MethodPost {
				t.Errorf("method %s", r.Method)
			}
			var req likeCommentRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(commentResponse{CommentView: wireCommentView{
				Comment: wireComment{ID: req.CommentID, PostID: 9, Path: "0.1"},
				Counts:  wireCommentCounts{Score: 3},
				MyVote:  &req.Score,
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", 100)
	ctx := context.Background()
	comments, err := c.GetComments(ctx, CommentQuery{PostID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 || comments[1].Path != "0.1.2" || !comments[1].Deleted || !comments[1].CreatorBanned {
		t.Fatalf("unexpected comments %+v", comments)
	}

	voted, err := c.VoteComment(ctx, 1, 1)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if voted.MyVote != 1 || voted.Score != 3 {
		t.Fatalf("unexpected vote result %+v", voted)
	}
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/comment":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"not_logged_in"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}
	}))

	c := NewHTTPClient(srv.URL, 0)
	ctx := context.Background()

	_, err := c.CreateComment(ctx, 1, nil, "hi")
	if !errors.Is(err, apperr.ErrAPI) || apperr.Code(err) != "not_logged_in" {
		t.Fatalf("expected api error not_logged_in, got %v", err)
	}
	if !apperr.Retryable(err) {
		t.Fatal("api errors offer a retry")
	}

	_, err = c.GetComments(ctx, CommentQuery{PostID: 1})
	if apperr.KindOf(err) != apperr.Unknown {
		t.Fatalf("expected unknown for non-json error body, got %v", err)
	}

	srv.Close()
	_, err = c.ListPosts(ctx, PostQuery{})
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestHTTPClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/site" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"site_view":{}}`))
	}))
	defer srv.Close()
	if err := NewHTTPClient(srv.URL, 0).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
