// Package markdown renders the site's lightweight markdown dialect to HTML
// fragments and builds heading outlines from rendered fragments.
//
// Rendering is an ordered list of pure passes. Each pass receives the
// previous pass's buffer and returns a new one; nothing is shared between
// calls, so Render is safe for concurrent use.
package markdown

import (
	"strconv"
	"strings"
)

// Placeholders delimit fragments that later passes must not touch. Both runes
// are in the Unicode private use area and never appear in rendered output;
// they are stripped from input before the first pass.
const (
	openMark  = "\uE000"
	closeMark = "\uE001"
)

// buffer is the value threaded through the pipeline: the working text plus
// the protected fragments referenced by placeholders in it.
type buffer struct {
	text  string
	stash []fragment
}

// fragment is protected content. block fragments (fenced code) count as
// block-level elements during paragraph assembly.
type fragment struct {
	raw   string
	html  string
	block bool
}

// protect stores f and returns the new buffer together with its placeholder.
func (b buffer) protect(f fragment) (buffer, string) {
	stash := make([]fragment, len(b.stash), len(b.stash)+1)
	copy(stash, b.stash)
	stash = append(stash, f)
	return buffer{text: b.text, stash: stash}, placeholder(len(stash) - 1)
}

func (b buffer) withText(text string) buffer {
	return buffer{text: text, stash: b.stash}
}

func placeholder(i int) string {
	return openMark + strconv.Itoa(i) + closeMark
}

// placeholderIndex parses a placeholder at the start of s.
func placeholderIndex(s string) (int, bool) {
	if !strings.HasPrefix(s, openMark) {
		return 0, false
	}
	rest := s[len(openMark):]
	end := strings.Index(rest, closeMark)
	if end <= 0 {
		return 0, false
	}
	i, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}

// pass is one named pipeline stage.
type pass struct {
	name  string
	apply func(buffer) buffer
}

// pipeline is the fixed pass order. Later passes rely on the output shape of
// earlier ones, so the order must not change.
var pipeline = []pass{
	{"normalize", normalize},
	{"fenced-code", extractFences},
	{"inline-code", inlineCode},
	{"restore-code", restoreFences},
	{"headings", headings},
	{"emphasis", emphasis},
	{"images-links", imagesAndLinks},
	{"list-items", listItems},
	{"list-groups", groupLists},
	{"paragraphs", paragraphs},
	{"line-breaks", lineBreaks},
	{"splice", splice},
}

// Render converts markdown in the site dialect to an HTML fragment.
// Empty input yields an empty fragment.
func Render(src string) string {
	if src == "" {
		return ""
	}
	b := buffer{text: src}
	for _, p := range pipeline {
		b = p.apply(b)
	}
	return b.text
}

// Dialect is the Renderer for the site's own markdown dialect.
type Dialect struct{}

// Render implements Renderer.
func (Dialect) Render(src string) string { return Render(src) }

// Name implements Renderer.
func (Dialect) Name() string { return EngineDialect }
