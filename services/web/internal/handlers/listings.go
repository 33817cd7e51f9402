package handlers

import (
	"net/http"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/listing"
	"github.com/example/forum-client/internal/platform/api"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/session"
)

type pageOut struct {
	listing.PageResult
	Error *api.APIError `json:"error,omitempty"`
}

type listingResp struct {
	Query session.Query `json:"query"`
	// Page is the encoded page list, ready to be sent back as ?page=.
	Page  string    `json:"page"`
	Pages []pageOut `json:"pages"`
}

func queryFrom(r *http.Request) session.Query {
	q := r.URL.Query()
	return session.Query{
		Listing: domain.ParseListingType(q.Get("listing")),
		Sort:    domain.ParseSortType(q.Get("sort")),
		Scope:   q.Get("community"),
	}
}

func renderPages(w http.ResponseWriter, rid string, q session.Query, pages listing.Pages, results []listing.PageResult) {
	out := listingResp{Query: q, Page: listing.EncodePages(pages.OrFirst()), Pages: make([]pageOut, len(results))}
	failed := 0
	for i, res := range results {
		out.Pages[i] = pageOut{PageResult: res}
		if res.Err != nil {
			_, e := classify(res.Err, rid)
			out.Pages[i].Error = &e
			failed++
		}
	}
	if failed > 0 && failed == len(results) {
		writeError(w, rid, results[0].Err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func listPosts(app *session.App, refetch bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		pages, err := listing.DecodePages(r.URL.Query().Get("page"))
		if err != nil {
			writeError(w, rid, err)
			return
		}
		q := queryFrom(r)
		s := sessionOf(app, w, r)
		var results []listing.PageResult
		if refetch {
			results = s.Refetch(r.Context(), q, pages)
		} else {
			results = s.Listing(r.Context(), q, pages)
		}
		renderPages(w, rid, q, pages, results)
	}
}

// ListPosts resolves every page named by ?page= (the first page when
// absent) from cache, the forum, or the offline store.
func ListPosts(app *session.App) http.HandlerFunc { return listPosts(app, false) }

// RefetchPosts is ListPosts bypassing the response cache.
func RefetchPosts(app *session.App) http.HandlerFunc { return listPosts(app, true) }

type nextResp struct {
	Page  string        `json:"page"`
	Pages listing.Pages `json:"pages"`
	Grew  bool          `json:"grew"`
}

// NextPage is the infinite scroll trigger: it returns the page list with
// the next page appended when the feed has one.
func NextPage(app *session.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, grew := sessionOf(app, w, r).NextPage(r.Context(), queryFrom(r))
		api.WriteJSON(w, http.StatusOK, nextResp{Page: listing.EncodePages(pages), Pages: pages, Grew: grew})
	}
}
