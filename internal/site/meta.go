package site

import (
	"strings"

	"github.com/starford/folio/internal/frontmatter"
)

// Fields lists the front-matter keys accepted for each article attribute.
// The first key present in a document wins.
type Fields struct {
	Title      []string `yaml:"title"`
	UpdateTime []string `yaml:"update_time"`
	Category   []string `yaml:"category"`
	Tags       []string `yaml:"tags"`
	Intro      []string `yaml:"intro"`
}

// DefaultFields accepts the Chinese keys used by the content files and their
// English equivalents.
func DefaultFields() Fields {
	return Fields{
		Title:      []string{"题目", "title"},
		UpdateTime: []string{"更新时间", "updateTime", "update_time"},
		Category:   []string{"分类", "category"},
		Tags:       []string{"标签", "tags"},
		Intro:      []string{"引言", "intro"},
	}
}

// ArticleMeta is the list-view summary of one article.
type ArticleMeta struct {
	Path       string   `json:"path"`
	Title      string   `json:"title"`
	UpdateTime string   `json:"update_time"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Intro      string   `json:"intro"`
}

// MetaFromFrontMatter builds the summary for the article at p. A missing
// title falls back to the file name without its .md extension.
func MetaFromFrontMatter(p string, fm frontmatter.FrontMatter, f Fields) ArticleMeta {
	meta := ArticleMeta{
		Path:       p,
		Title:      lookup(fm, f.Title).String(),
		UpdateTime: lookup(fm, f.UpdateTime).String(),
		Category:   lookup(fm, f.Category).String(),
		Tags:       lookup(fm, f.Tags).Strings(),
		Intro:      lookup(fm, f.Intro).String(),
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(p[strings.LastIndex(p, "/")+1:], ".md")
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta
}

func lookup(fm frontmatter.FrontMatter, keys []string) frontmatter.Value {
	v, _ := fm.Lookup(keys...)
	return v
}
