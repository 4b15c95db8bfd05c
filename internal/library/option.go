package library

import (
	"log/slog"

	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/markdown"
	"github.com/starford/folio/internal/site"
)

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the markdown engine.
func WithRenderer(r markdown.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithExtractor sets the front-matter extractor.
func WithExtractor(e frontmatter.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extract = e
		}
	}
}

// WithFields sets the front-matter key aliases.
func WithFields(f site.Fields) Option {
	return func(s *Service) { s.fields = f }
}

// WithConcurrency bounds parallel reads in AllMeta.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
