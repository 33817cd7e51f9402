package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/forum-client/internal/session"
)

// Mount registers the client API under r.
func Mount(r chi.Router, app *session.App) {
	r.Get("/status", Status(app))

	r.Get("/posts", ListPosts(app))
	r.Post("/posts/refetch", RefetchPosts(app))
	r.Post("/posts/next", NextPage(app))

	r.Route("/posts/{post_id}", func(r chi.Router) {
		r.Get("/comments", GetThread(app))
		r.Post("/comments", CreateComment(app))
		r.Get("/collapsed", GetCollapsed(app))
		r.Put("/collapsed", SetCollapsed(app))
		r.Post("/comments/{comment_id}/collapse", ToggleCollapsed(app))
	})

	r.Route("/comments/{comment_id}", func(r chi.Router) {
		r.Put("/", EditComment(app))
		r.Post("/vote", VoteComment(app))
		r.Post("/save", SaveComment(app))
		r.Post("/composer", Composer(app))
		r.Post("/vote-menu", ToggleVoteMenu(app))
		r.Get("/interaction", GetInteraction(app))
	})

	r.Get("/drafts/{kind}/{id}", GetDraft(app))
	r.Put("/drafts/{kind}/{id}", PutDraft(app))

	r.Get("/scroll", GetScroll(app))
	r.Put("/scroll", PutScroll(app))
}
