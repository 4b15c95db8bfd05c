package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/library"
)

// maxRenderBody caps POST /render payloads.
const maxRenderBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	lib *library.Service
	idx index.ArticleIndex
}

// NewHandler creates a new Handler. idx may be nil.
func NewHandler(lib *library.Service, idx index.ArticleIndex) *Handler {
	return &Handler{lib: lib, idx: idx}
}

// articlePath extracts the article path from the URL (everything after
// /articles/). Supports encoded slashes (e.g. 知识库%2Fa.md).
func articlePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Sections handles GET /api/sections.
//
//	@Summary		List content sections
//	@Tags			sections
//	@Produce		json
//	@Success		200	{object}	SectionsResponse
//	@Security		BearerAuth
//	@Router			/sections [get]
func (h *Handler) Sections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SectionsResponse{Sections: h.lib.Sections()})
}

// ListArticles handles GET /api/{section}/articles.
//
//	@Summary		List article metadata in manifest order
//	@Tags			articles
//	@Produce		json
//	@Param			section	path		string	true	"Section name"
//	@Param			grouped	query		bool	false	"Group by category"
//	@Success		200		{object}	ArticleListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{section}/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	grouped, _ := strconv.ParseBool(r.URL.Query().Get("grouped"))

	if grouped {
		groups, err := h.lib.Categories(r.Context(), section)
		if err != nil {
			writeError(w, "list articles", err)
			return
		}
		writeJSON(w, http.StatusOK, GroupedArticleListResponse{Section: section, Categories: groups})
		return
	}

	metas, err := h.lib.AllMeta(r.Context(), section)
	if err != nil {
		writeError(w, "list articles", err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Section: section, Articles: metas})
}

// GetArticle handles GET /api/{section}/articles/*.
//
//	@Summary		Get a rendered article with its outline
//	@Tags			articles
//	@Produce		json
//	@Param			section	path		string	true	"Section name"
//	@Param			path	path		string	true	"Article path as listed in the manifest"
//	@Success		200		{object}	library.Article
//	@Success		304		"Not modified (If-None-Match matched the ETag)"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{section}/articles/{path} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	path := articlePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	article, err := h.lib.Article(r.Context(), chi.URLParam(r, "section"), path)
	if err != nil {
		writeError(w, "get article", err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(article.Checksum))
	if checksum.Matches(r.Header.Get("If-None-Match"), article.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Navigation handles GET /api/{section}/nav.
//
//	@Summary		Sidebar navigation tree
//	@Tags			articles
//	@Produce		json
//	@Param			section	path		string	true	"Section name"
//	@Success		200		{object}	site.Navigation
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{section}/nav [get]
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	nav, err := h.lib.Navigation(r.Context(), chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, "navigation", err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

// Cards handles GET /api/{section}/cards.
//
//	@Summary		Home-page show cards
//	@Tags			articles
//	@Produce		json
//	@Param			section	path		string	true	"Section name"
//	@Success		200		{object}	CardsResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{section}/cards [get]
func (h *Handler) Cards(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	cards, err := h.lib.Cards(r.Context(), section)
	if err != nil {
		writeError(w, "cards", err)
		return
	}
	writeJSON(w, http.StatusOK, CardsResponse{Section: section, Cards: cards})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across indexed articles
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			section	query		string	false	"Restrict to one section"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	if h.idx == nil {
		writeError(w, "search", apperr.ErrUnsupported)
		return
	}
	section := r.URL.Query().Get("section")
	if section != "" {
		if _, err := h.lib.Section(section); err != nil {
			writeError(w, "search", err)
			return
		}
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.idx.Search(r.Context(), q, section, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Render handles POST /api/render.
//
//	@Summary		Render a markdown document
//	@Tags			render
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderRequest	true	"Document"
//	@Success		200		{object}	library.Rendered
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRenderBody)
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.lib.Render(req.Content))
}
