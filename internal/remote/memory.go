package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/platform/auth"
)

// MemoryAPI is an in-process forum for development and tests. Comments get
// forum-style paths ("0.<root>.<child>") and votes and saves are tracked
// per identity subject.
type MemoryAPI struct {
	mu       sync.RWMutex
	nextID   int64
	posts    []domain.Post
	comments []domain.Comment              // creation order
	votes    map[int64]map[string]int16    // commentID -> subject -> vote
	saved    map[int64]map[string]struct{} // commentID -> subject
	down     error
}

func NewMemoryAPI() *MemoryAPI {
	return &MemoryAPI{
		votes: make(map[int64]map[string]int16),
		saved: make(map[int64]map[string]struct{}),
	}
}

// SetDown makes every call fail with a network error until cleared with nil.
func (m *MemoryAPI) SetDown(err error) {
	m.mu.Lock()
	m.down = err
	m.mu.Unlock()
}

func (m *MemoryAPI) check(op string) error {
	if m.down != nil {
		return apperr.New(apperr.Network, op, m.down)
	}
	return nil
}

func (m *MemoryAPI) id() int64 {
	m.nextID++
	return m.nextID
}

// AddPost stores p with a fresh id and returns it.
func (m *MemoryAPI) AddPost(p domain.Post) domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	if p.Published.IsZero() {
		p.Published = time.Now().UTC()
	}
	m.posts = append(m.posts, p)
	return p
}

func encodeOffset(n int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(n)))
}

func decodeOffset(cursor string) (int, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, err
	}
	s, ok := strings.CutPrefix(string(b), "o:")
	if !ok {
		return 0, errors.New("bad cursor")
	}
	return strconv.Atoi(s)
}

func (m *MemoryAPI) ListPosts(ctx context.Context, q PostQuery) (domain.PostPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("list posts"); err != nil {
		return domain.PostPage{}, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var posts []domain.Post
	for _, p := range m.posts {
		if q.Community != "" && p.CommunityName != q.Community {
			continue
		}
		posts = append(posts, p)
	}

	switch q.Sort {
	case domain.SortNew:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Published.After(posts[j].Published) })
	case domain.SortOld:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Published.Before(posts[j].Published) })
	case domain.SortMostComments:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Comments > posts[j].Comments })
	default:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Score > posts[j].Score })
	}

	start := 0
	if q.Cursor != "" {
		n, err := decodeOffset(q.Cursor)
		if err != nil {
			return domain.PostPage{}, apperr.APIError("list posts", "couldnt_parse_pagination_token")
		}
		start = n
	}
	if start >= len(posts) {
		return domain.PostPage{Posts: []domain.Post{}}, nil
	}
	posts = posts[start:]

	var page domain.PostPage
	if len(posts) > limit {
		posts = posts[:limit]
		next := encodeOffset(start + limit)
		page.NextCursor = &next
	}
	page.Posts = append([]domain.Post(nil), posts...)
	return page, nil
}

func (m *MemoryAPI) GetComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("get comments"); err != nil {
		return nil, err
	}
	if _, ok := m.post(q.PostID); !ok {
		return nil, apperr.APIError("get comments", "couldnt_find_post")
	}
	sub := auth.IdentityFromContext(ctx).Subject

	var out []domain.Comment
	for _, c := range m.comments {
		if c.PostID == q.PostID && (q.MaxDepth <= 0 || c.Depth() <= q.MaxDepth) {
			out = append(out, m.view(c, sub))
		}
	}
	sortThread(out, q.Sort)
	return out, nil
}

// sortThread orders comments so that every comment follows its parent and
// siblings follow sort. Comparing ancestor chains keeps branches together.
func sortThread(cs []domain.Comment, by domain.CommentSortType) {
	byID := make(map[int64]domain.Comment, len(cs))
	for _, c := range cs {
		byID[c.ID] = c
	}
	less := func(a, b domain.Comment) bool {
		switch by {
		case domain.CommentSortNew:
			return a.Published.After(b.Published) || (a.Published.Equal(b.Published) && a.ID > b.ID)
		case domain.CommentSortOld:
			return a.Published.Before(b.Published) || (a.Published.Equal(b.Published) && a.ID < b.ID)
		default:
			return a.Score > b.Score || (a.Score == b.Score && a.ID < b.ID)
		}
	}
	chain := func(c domain.Comment) []int64 {
		segs := strings.Split(c.Path, ".")
		ids := make([]int64, 0, len(segs))
		for _, s := range segs[1:] {
			n, _ := strconv.ParseInt(s, 10, 64)
			ids = append(ids, n)
		}
		return ids
	}
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := chain(cs[i]), chain(cs[j])
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] == b[k] {
				continue
			}
			return less(byID[a[k]], byID[b[k]])
		}
		return len(a) < len(b)
	})
}

func (m *MemoryAPI) VoteComment(ctx context.Context, commentID int64, score int16) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("vote comment"); err != nil {
		return domain.Comment{}, err
	}
	sub, err := subject(ctx, "vote comment")
	if err != nil {
		return domain.Comment{}, err
	}
	if score < -1 || score > 1 {
		return domain.Comment{}, apperr.APIError("vote comment", "invalid_vote")
	}
	i, ok := m.comment(commentID)
	if !ok {
		return domain.Comment{}, apperr.APIError("vote comment", "couldnt_find_comment")
	}

	if m.votes[commentID] == nil {
		m.votes[commentID] = make(map[string]int16)
	}
	old := m.votes[commentID][sub]
	m.comments[i].Score += int64(score - old)
	if score == 0 {
		delete(m.votes[commentID], sub)
	} else {
		m.votes[commentID][sub] = score
	}
	return m.view(m.comments[i], sub), nil
}

func (m *MemoryAPI) SaveComment(ctx context.Context, commentID int64, save bool) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("save comment"); err != nil {
		return domain.Comment{}, err
	}
	sub, err := subject(ctx, "save comment")
	if err != nil {
		return domain.Comment{}, err
	}
	i, ok := m.comment(commentID)
	if !ok {
		return domain.Comment{}, apperr.APIError("save comment", "couldnt_find_comment")
	}
	if save {
		if m.saved[commentID] == nil {
			m.saved[commentID] = make(map[string]struct{})
		}
		m.saved[commentID][sub] = struct{}{}
	} else {
		delete(m.saved[commentID], sub)
	}
	return m.view(m.comments[i], sub), nil
}

func (m *MemoryAPI) CreateComment(ctx context.Context, postID int64, parentID *int64, content string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("create comment"); err != nil {
		return domain.Comment{}, err
	}
	sub, err := subject(ctx, "create comment")
	if err != nil {
		return domain.Comment{}, err
	}
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, apperr.APIError("create comment", "empty_comment")
	}
	pi, ok := m.postIndex(postID)
	if !ok {
		return domain.Comment{}, apperr.APIError("create comment", "couldnt_find_post")
	}
	parentPath := "0"
	if parentID != nil {
		i, ok := m.comment(*parentID)
		if !ok || m.comments[i].PostID != postID {
			return domain.Comment{}, apperr.APIError("create comment", "couldnt_find_parent_comment")
		}
		parentPath = m.comments[i].Path
	}

	authorID, _ := strconv.ParseInt(sub, 10, 64)
	c := domain.Comment{
		ID:         m.id(),
		PostID:     postID,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: sub,
		Published:  time.Now().UTC(),
	}
	c.Path = fmt.Sprintf("%s.%d", parentPath, c.ID)
	m.comments = append(m.comments, c)
	m.posts[pi].Comments++
	return m.view(c, sub), nil
}

func (m *MemoryAPI) EditComment(ctx context.Context, commentID int64, content string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("edit comment"); err != nil {
		return domain.Comment{}, err
	}
	sub, err := subject(ctx, "edit comment")
	if err != nil {
		return domain.Comment{}, err
	}
	i, ok := m.comment(commentID)
	if !ok || m.comments[i].AuthorName != sub || m.comments[i].Deleted {
		return domain.Comment{}, apperr.APIError("edit comment", "no_comment_edit_allowed")
	}
	m.comments[i].Content = content
	return m.view(m.comments[i], sub), nil
}

func (m *MemoryAPI) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check("ping")
}

func subject(ctx context.Context, op string) (string, error) {
	id := auth.IdentityFromContext(ctx)
	if !id.LoggedIn() {
		return "", apperr.APIError(op, "not_logged_in")
	}
	return id.Subject, nil
}

func (m *MemoryAPI) view(c domain.Comment, sub string) domain.Comment {
	c.MyVote = 0
	c.Saved = false
	if sub == "" {
		return c
	}
	c.MyVote = m.votes[c.ID][sub]
	_, c.Saved = m.saved[c.ID][sub]
	return c
}

func (m *MemoryAPI) comment(id int64) (int, bool) {
	for i, c := range m.comments {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *MemoryAPI) postIndex(id int64) (int, bool) {
	for i, p := range m.posts {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *MemoryAPI) post(id int64) (domain.Post, bool) {
	i, ok := m.postIndex(id)
	if !ok {
		return domain.Post{}, false
	}
	return m.posts[i], true
}
