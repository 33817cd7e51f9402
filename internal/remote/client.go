package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/forum-client/internal/apperr"
	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/platform/auth"
)

const maxBody = 10 << 20

// HTTPClient calls the forum's /api/v3 JSON API.
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
}

// NewHTTPClient creates a client for baseURL limited to rps requests per
// second (rps <= 0 disables the limit).
func NewHTTPClient(baseURL string, rps float64) *HTTPClient {
	c := &HTTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/") + "/api/v3",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		UserAgent:  "forum-client/1.0",
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return c
}

func (c *HTTPClient) ListPosts(ctx context.Context, q PostQuery) (domain.PostPage, error) {
	v := url.Values{}
	if q.Listing != "" {
		v.Set("type_", string(q.Listing))
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Community != "" {
		v.Set("community_name", q.Community)
	}
	if q.Cursor != "" {
		v.Set("page_cursor", q.Cursor)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	var out listPostsResponse
	if err := c.do(ctx, "list posts", http.MethodGet, "/post/list", v, nil, &out); err != nil {
		return domain.PostPage{}, err
	}
	page := domain.PostPage{Posts: make([]domain.Post, len(out.Posts)), NextCursor: out.NextPage}
	for i, pv := range out.Posts {
		page.Posts[i] = pv.toDomain()
	}
	return page, nil
}

func (c *HTTPClient) GetComments(ctx context.Context, q CommentQuery) ([]domain.Comment, error) {
	depth := q.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	v := url.Values{}
	v.Set("post_id", strconv.FormatInt(q.PostID, 10))
	v.Set("max_depth", strconv.Itoa(depth))
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	var out getCommentsResponse
	if err := c.do(ctx, "get comments", http.MethodGet, "/comment/list", v, nil, &out); err != nil {
		return nil, err
	}
	comments := make([]domain.Comment, len(out.Comments))
	for i, cv := range out.Comments {
		comments[i] = cv.toDomain()
	}
	return comments, nil
}

func (c *HTTPClient) VoteComment(ctx context.Context, commentID int64, score int16) (domain.Comment, error) {
	return c.comment(ctx, "vote comment", http.MethodPost, "/comment/like", likeCommentRequest{CommentID: commentID, Score: score})
}

func (c *HTTPClient) SaveComment(ctx context.Context, commentID int64, save bool) (domain.Comment, error) {
	return c.comment(ctx, "save comment", http.MethodPut, "/comment/save", saveCommentRequest{CommentID: commentID, Save: save})
}

func (c *HTTPClient) CreateComment(ctx context.Context, postID int64, parentID *int64, content string) (domain.Comment, error) {
	return c.comment(ctx, "create comment", http.MethodPost, "/comment", createCommentRequest{Content: content, PostID: postID, ParentID: parentID})
}

func (c *HTTPClient) EditComment(ctx context.Context, commentID int64, content string) (domain.Comment, error) {
	return c.comment(ctx, "edit comment", http.MethodPut, "/comment", editCommentRequest{CommentID: commentID, Content: content})
}

// Ping fetches the site descriptor, which every forum instance serves.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/site", nil, nil, nil)
}

func (c *HTTPClient) comment(ctx context.Context, op, method, path string, body any) (domain.Comment, error) {
	var out commentResponse
	if err := c.do(ctx, op, method, path, nil, body, &out); err != nil {
		return domain.Comment{}, err
	}
	return out.CommentView.toDomain(), nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return apperr.New(apperr.Network, op, err)
		}
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return apperr.New(apperr.Unknown, op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return apperr.New(apperr.Unknown, op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := auth.IdentityFromContext(ctx).Token; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apperr.New(apperr.Network, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return apperr.New(apperr.Network, op, err)
	}

	if resp.StatusCode >= 400 {
		var er errorResponse
		if err := json.Unmarshal(b, &er); err != nil || er.Error == "" {
			return apperr.New(apperr.Unknown, op, fmt.Errorf("status %d", resp.StatusCode))
		}
		return apperr.APIError(op, er.Error)
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return apperr.New(apperr.Unknown, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
