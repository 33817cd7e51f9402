package drafts

import (
	"context"
	"errors"
	"testing"

	"github.com/example/forum-client/internal/offline"
)

func TestDraftLifecycle(t *testing.T) {
	mem := offline.NewMemory()
	s := NewStore(mem, nil)
	ctx := context.Background()
	key := Key{CommentID: 12, Kind: Reply}

	if got := s.Load(ctx, key); got != "" {
		t.Fatalf("expected empty draft, got %q", got)
	}
	s.Update(ctx, key, "hel")
	s.Update(ctx, key, "hello")
	if got := s.Load(ctx, key); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}

	raw, ok, _ := mem.Get(ctx, offline.NSCommentDrafts, `{"comment_id":12,"draft":"Reply"}`)
	if !ok || string(raw) != `{"value":"hello"}` {
		t.Fatalf("stored %q ok=%v", raw, ok)
	}

	if got := s.Load(ctx, Key{CommentID: 12, Kind: Edit}); got != "" {
		t.Fatalf("edit draft should be separate, got %q", got)
	}

	s.Discard(ctx, key)
	if got := s.Load(ctx, key); got != "" {
		t.Fatalf("expected empty after discard, got %q", got)
	}
}

func TestNullValueIsEmpty(t *testing.T) {
	mem := offline.NewMemory()
	ctx := context.Background()
	_ = mem.Set(ctx, offline.NSCommentDrafts, `{"comment_id":1,"draft":"Edit"}`, []byte(`{"value":null}`))
	if got := NewStore(mem, nil).Load(ctx, Key{CommentID: 1, Kind: Edit}); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

type downStore struct{}

func (downStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (downStore) Set(context.Context, string, string, []byte) error { return errors.New("down") }
func (downStore) Delete(context.Context, string, string) error     { return errors.New("down") }

func TestFailuresAreNotFatal(t *testing.T) {
	s := NewStore(downStore{}, nil)
	ctx := context.Background()
	key := Key{CommentID: 3, Kind: Post}
	s.Update(ctx, key, "text")
	s.Discard(ctx, key)
	if got := s.Load(ctx, key); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []string{"Reply", "Edit", "Post"} {
		if _, err := ParseKind(k); err != nil {
			t.Fatalf("%s: %v", k, err)
		}
	}
	if _, err := ParseKind("reply"); err == nil {
		t.Fatal("kinds are case-sensitive")
	}
}
