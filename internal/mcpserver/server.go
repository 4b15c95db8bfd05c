// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the site's articles and the markdown renderer over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/library"
	"github.com/starford/folio/internal/markdown"
)

// DialectURI is the resource describing the markdown dialect.
const DialectURI = "folio://dialect"

// Server wraps the MCP server with folio tools.
type Server struct {
	mcp *server.MCPServer
	lib *library.Service
	idx index.ArticleIndex
}

// New creates a new MCP server with all tools registered. idx may be nil;
// list_articles then reads the manifests and search_articles is unavailable.
func New(lib *library.Service, idx index.ArticleIndex, version string) *Server {
	s := &Server{lib: lib, idx: idx}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_markdown",
		mcp.WithDescription("Render a markdown document to HTML. Returns front matter, HTML and the h1/h2 outline. "+
			"Read the "+DialectURI+" resource for the supported syntax."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown source, optionally with a leading --- front matter block")),
	), s.renderMarkdown)

	s.mcp.AddTool(mcp.NewTool("extract_frontmatter",
		mcp.WithDescription("Split a document into its front matter fields and body."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document text")),
	), s.extractFrontMatter)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List article metadata (path, title, category, tags) in manifest order."),
		mcp.WithString("section", mcp.Description("Section name; empty lists every section")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read one article. format=markdown returns the source, format=html the rendered page."),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section name, e.g. knowledge")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Article path as listed in the manifest")),
		mcp.WithString("format", mcp.Description("markdown (default) or html"), mcp.Enum("markdown", "html")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Full-text search through article titles, bodies, tags and intros."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("section", mcp.Description("Restrict to one section")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("get_outline",
		mcp.WithDescription("Return the h1/h2 table of contents of an article with anchor ids."),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Article path as listed in the manifest")),
	), s.getOutline)

	s.mcp.AddResource(
		mcp.NewResource(DialectURI, "Markdown Dialect",
			mcp.WithResourceDescription("Markdown syntax and front matter format understood by the renderer."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDialectResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrUnknownSection):
		return mcp.NewToolResultError("unknown section")
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) renderMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.lib.Render(content)), nil
}

func (s *Server) extractFrontMatter(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fm, body := s.lib.Extract(content)
	return jsonResult(map[string]any{"front_matter": fm, "body": body}), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := req.GetString("section", "")
	if section != "" {
		if _, err := s.lib.Section(section); err != nil {
			return errorResult(err), nil
		}
	}

	if s.idx != nil {
		rows, err := s.idx.ListArticles(ctx, section)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(rows), nil
	}

	sections := []string{section}
	if section == "" {
		sections = sections[:0]
		for _, sec := range s.lib.Sections() {
			sections = append(sections, sec.Name)
		}
	}
	out := map[string]any{}
	for _, name := range sections {
		metas, err := s.lib.AllMeta(ctx, name)
		if err != nil {
			return errorResult(fmt.Errorf("%s: %w", name, err)), nil
		}
		out[name] = metas
	}
	return jsonResult(out), nil
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := s.lib.Article(ctx, section, path)
	if err != nil {
		return errorResult(err), nil
	}
	if strings.EqualFold(req.GetString("format", "markdown"), "html") {
		return mcp.NewToolResultText(a.HTML), nil
	}
	return mcp.NewToolResultText(a.Body), nil
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.idx == nil {
		return mcp.NewToolResultError("search index is not available"), nil
	}
	results, err := s.idx.Search(ctx, query, req.GetString("section", ""), req.GetInt("limit", 20))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(results), nil
}

func (s *Server) getOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var headings []markdown.Heading
	if s.idx != nil {
		if row, idxErr := s.idx.GetArticle(ctx, section, path); idxErr == nil {
			headings = row.Headings
		}
	}
	if headings == nil {
		a, err := s.lib.Article(ctx, section, path)
		if err != nil {
			return errorResult(err), nil
		}
		headings = a.Headings
	}
	return jsonResult(headings), nil
}

func (s *Server) readDialectResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DialectURI,
			MIMEType: "text/markdown",
			Text:     DialectGuide,
		},
	}, nil
}
