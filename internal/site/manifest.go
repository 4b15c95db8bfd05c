// Package site models the content of a section: its manifest, article
// metadata, sidebar navigation, category groups and home-page show cards.
package site

import "strings"

// ParseManifest returns the article paths listed in a manifest file, one per
// line. Blank lines and lines starting with '#' are dropped. Order is kept.
func ParseManifest(text string) []string {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}

// FetchPath is the storage path for a manifest entry: a leading slash is
// dropped.
func FetchPath(p string) string {
	return strings.TrimPrefix(p, "/")
}
