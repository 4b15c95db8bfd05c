package markdown

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var outlineSel = cascadia.MustCompile("h1, h2")

// Heading is one table-of-contents entry.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Document is a rendered fragment plus its heading outline.
type Document struct {
	HTML     string    `json:"html"`
	Headings []Heading `json:"headings"`
}

// AssignHeadingIDs parses fragment, sets id="heading-1-N" on every h1 and
// id="heading-2-N" on every h2 (independent zero-based counters) and returns
// the re-serialised fragment with the outline in document order. Level-3
// and deeper headings are left alone. A fragment that cannot be parsed is
// returned unchanged with no headings.
func AssignHeadingIDs(fragment string) (string, []Heading) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return fragment, nil
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	var outline []Heading
	counters := map[atom.Atom]int{}
	for _, n := range outlineSel.MatchAll(root) {
		level := 1
		if n.DataAtom == atom.H2 {
			level = 2
		}
		id := fmt.Sprintf("heading-%d-%d", level, counters[n.DataAtom])
		counters[n.DataAtom]++
		setAttr(n, "id", id)
		outline = append(outline, Heading{Level: level, Text: strings.TrimSpace(textContent(n)), ID: id})
	}

	var sb strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return fragment, nil
		}
	}
	return sb.String(), outline
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// Convert renders src with r and assigns heading ids to the result.
func Convert(r Renderer, src string) Document {
	out, headings := AssignHeadingIDs(r.Render(src))
	return Document{HTML: out, Headings: headings}
}
