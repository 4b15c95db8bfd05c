package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/library"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// idx may be nil, in which case search answers 501.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(lib *library.Service, idx index.ArticleIndex, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(lib, idx)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/sections", h.Sections)

	r.Route("/{section}", func(r chi.Router) {
		r.Get("/articles", h.ListArticles)
		r.Get("/articles/*", h.GetArticle)
		r.Get("/nav", h.Navigation)
		r.Get("/cards", h.Cards)
	})

	r.Get("/search", h.Search)
	r.Post("/render", h.Render)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
