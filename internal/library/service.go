// Package library loads sections of the site: manifests, article metadata,
// rendered articles and home-page cards.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/markdown"
	"github.com/starford/folio/internal/site"
	"github.com/starford/folio/internal/storage"
)

// Section is one content collection of the site, such as the knowledge base
// or the project list.
type Section struct {
	Name         string `json:"name"`
	Manifest     string `json:"manifest"`
	Show         string `json:"show,omitempty"`
	Page         string `json:"page"`
	DefaultTitle string `json:"default_title"`
}

// Article is a fully rendered article.
type Article struct {
	Section     string                  `json:"section"`
	Meta        site.ArticleMeta        `json:"meta"`
	FrontMatter frontmatter.FrontMatter `json:"front_matter"`
	HTML        string                  `json:"html"`
	Headings    []markdown.Heading      `json:"headings"`
	Checksum    string                  `json:"checksum"`
	Body        string                  `json:"-"`
}

// Rendered is an ad-hoc document rendered outside any section.
type Rendered struct {
	FrontMatter frontmatter.FrontMatter `json:"front_matter"`
	HTML        string                  `json:"html"`
	Headings    []markdown.Heading      `json:"headings"`
}

// CardView is a show card with its resolved link and meta line.
type CardView struct {
	site.Card
	Href string   `json:"href"`
	Meta []string `json:"meta"`
}

// Service reads sections from a storage provider and renders them.
type Service struct {
	store       storage.Provider
	sections    []Section
	renderer    markdown.Renderer
	extract     frontmatter.Extractor
	fields      site.Fields
	concurrency int
	logger      *slog.Logger
}

// NewService creates a library over store serving the given sections.
func NewService(store storage.Provider, sections []Section, opts ...Option) *Service {
	s := &Service{
		store:       store,
		sections:    sections,
		renderer:    markdown.Dialect{},
		extract:     frontmatter.Extract,
		fields:      site.DefaultFields(),
		concurrency: 8,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sections returns the configured sections in order.
func (s *Service) Sections() []Section {
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Section returns the section named name.
func (s *Service) Section(name string) (Section, error) {
	for _, sec := range s.sections {
		if sec.Name == name {
			return sec, nil
		}
	}
	return Section{}, fmt.Errorf("library: section %q: %w", name, apperr.ErrUnknownSection)
}

// Manifest returns the article paths listed for section.
func (s *Service) Manifest(ctx context.Context, section string) ([]string, error) {
	sec, err := s.Section(section)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(ctx, sec.Manifest)
	if err != nil {
		return nil, fmt.Errorf("library: manifest %s: %w", section, err)
	}
	return site.ParseManifest(string(data)), nil
}

// Meta loads the metadata of one article. path must be listed in the
// section manifest.
func (s *Service) Meta(ctx context.Context, section, path string) (site.ArticleMeta, error) {
	entry, err := s.resolve(ctx, section, path)
	if err != nil {
		return site.ArticleMeta{}, err
	}
	return s.loadMeta(ctx, entry)
}

func (s *Service) loadMeta(ctx context.Context, path string) (site.ArticleMeta, error) {
	data, err := s.store.Read(ctx, site.FetchPath(path))
	if err != nil {
		return site.ArticleMeta{}, fmt.Errorf("library: meta %s: %w", path, err)
	}
	fm, _ := s.extract(string(data))
	return site.MetaFromFrontMatter(path, fm, s.fields), nil
}

// AllMeta loads the metadata of every article in the section manifest.
// Articles that fail to load are logged and left out; the rest keep
// manifest order.
func (s *Service) AllMeta(ctx context.Context, section string) ([]site.ArticleMeta, error) {
	paths, err := s.Manifest(ctx, section)
	if err != nil {
		return nil, err
	}

	results := make([]*site.ArticleMeta, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			meta, err := s.loadMeta(gctx, p)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("library: skip article",
					slog.String("section", section),
					slog.String("path", p),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = &meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("library: load %s: %w", section, err)
	}

	out := make([]site.ArticleMeta, 0, len(paths))
	for _, m := range results {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// Article reads and renders one article of section.
func (s *Service) Article(ctx context.Context, section, path string) (*Article, error) {
	entry, err := s.resolve(ctx, section, path)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(ctx, site.FetchPath(entry))
	if err != nil {
		return nil, fmt.Errorf("library: article %s: %w", entry, err)
	}
	return s.Parse(section, entry, data), nil
}

// Parse renders raw article bytes. It does no I/O.
func (s *Service) Parse(section, path string, data []byte) *Article {
	fm, body := s.extract(string(data))
	doc := markdown.Convert(s.renderer, body)
	return &Article{
		Section:     section,
		Meta:        site.MetaFromFrontMatter(path, fm, s.fields),
		FrontMatter: fm,
		HTML:        doc.HTML,
		Headings:    nonNilSlice(doc.Headings),
		Checksum:    checksum.Sum(data),
		Body:        body,
	}
}

// Read returns the raw bytes of a manifest entry.
func (s *Service) Read(ctx context.Context, path string) ([]byte, error) {
	return s.store.Read(ctx, site.FetchPath(path))
}

// Navigation builds the sidebar tree of section.
func (s *Service) Navigation(ctx context.Context, section string) (site.Navigation, error) {
	metas, err := s.AllMeta(ctx, section)
	if err != nil {
		return site.Navigation{}, err
	}
	return site.BuildNavigation(metas), nil
}

// Categories groups the articles of section by category.
func (s *Service) Categories(ctx context.Context, section string) ([]site.CategoryGroup, error) {
	metas, err := s.AllMeta(ctx, section)
	if err != nil {
		return nil, err
	}
	return site.GroupByCategory(metas), nil
}

// Cards returns the home-page show cards of section. A section without a
// show file, or whose show file is missing, has no cards.
func (s *Service) Cards(ctx context.Context, section string) ([]CardView, error) {
	sec, err := s.Section(section)
	if err != nil {
		return nil, err
	}
	if sec.Show == "" {
		return []CardView{}, nil
	}
	data, err := s.store.Read(ctx, sec.Show)
	if errors.Is(err, apperr.ErrNotFound) {
		return []CardView{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("library: cards %s: %w", section, err)
	}

	cards := site.ParseShowCards(string(data))
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = CardView{Card: c, Href: c.Href(sec.Page), Meta: nonNilSlice(c.MetaPieces())}
	}
	return out, nil
}

// Extract splits text with the configured front-matter extractor.
func (s *Service) Extract(text string) (frontmatter.FrontMatter, string) {
	return s.extract(text)
}

// Render converts an ad-hoc markdown document.
func (s *Service) Render(text string) Rendered {
	fm, body := s.extract(text)
	doc := markdown.Convert(s.renderer, body)
	return Rendered{FrontMatter: fm, HTML: doc.HTML, Headings: nonNilSlice(doc.Headings)}
}

// resolve finds path in the section manifest, accepting it with or without
// a leading slash, and returns the manifest spelling.
func (s *Service) resolve(ctx context.Context, section, path string) (string, error) {
	paths, err := s.Manifest(ctx, section)
	if err != nil {
		return "", err
	}
	want := site.FetchPath(strings.TrimSpace(path))
	for _, p := range paths {
		if site.FetchPath(p) == want {
			return p, nil
		}
	}
	return "", fmt.Errorf("library: %s/%s: %w", section, path, apperr.ErrNotFound)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
