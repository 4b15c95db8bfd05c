package api

import (
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/library"
	"github.com/starford/folio/internal/site"
)

// RenderRequest is the request body for rendering an ad-hoc document.
type RenderRequest struct {
	Content string `json:"content" example:"---\ntitle: Hi\n---\n# Hello" validate:"required"`
}

// SectionsResponse lists the configured sections.
type SectionsResponse struct {
	Sections []library.Section `json:"sections" validate:"required"`
}

// ArticleListResponse is the flat article listing of a section.
type ArticleListResponse struct {
	Section  string             `json:"section" example:"knowledge" validate:"required"`
	Articles []site.ArticleMeta `json:"articles" validate:"required"`
}

// GroupedArticleListResponse is the listing grouped by category.
type GroupedArticleListResponse struct {
	Section    string               `json:"section" example:"knowledge" validate:"required"`
	Categories []site.CategoryGroup `json:"categories" validate:"required"`
}

// CardsResponse wraps the home-page cards of a section.
type CardsResponse struct {
	Section string             `json:"section" example:"knowledge" validate:"required"`
	Cards   []library.CardView `json:"cards" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
