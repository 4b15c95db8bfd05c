package markdown

import "golang.org/x/net/html"

// Escape makes text safe to embed as HTML character data. It escapes
// & < > " and '.
func Escape(text string) string {
	return html.EscapeString(text)
}
