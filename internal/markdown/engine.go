package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by NewRenderer.
const (
	EngineDialect  = "dialect"
	EngineGoldmark = "goldmark"
)

// Renderer turns markdown into an HTML fragment. Implementations must be
// safe for concurrent use.
type Renderer interface {
	Render(src string) string
	Name() string
}

// NewRenderer returns the renderer registered under engine. An empty name
// selects the dialect renderer.
func NewRenderer(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineDialect:
		return Dialect{}, nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("markdown: unknown engine %q", engine)
	}
}

// Goldmark renders CommonMark plus GFM through goldmark. Raw HTML is passed
// through, as in the dialect renderer.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds a goldmark-backed renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render implements Renderer. Conversion errors fall back to the dialect.
func (g *Goldmark) Render(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return Render(src)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Name implements Renderer.
func (g *Goldmark) Name() string { return EngineGoldmark }
