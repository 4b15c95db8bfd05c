package site

import (
	"net/url"
	"strings"
)

// Card is one entry of a home-page show list.
type Card struct {
	Title      string   `json:"title"`
	UpdateTime string   `json:"update_time"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Intro      string   `json:"intro"`
	Link       string   `json:"link"`
}

// ParseShowCards reads blank-line separated blocks of "key: value" lines.
// Lines starting with '#' are comments. Blocks with neither a title nor a
// link are dropped.
func ParseShowCards(text string) []Card {
	cards := []Card{}
	cur := map[string]string{}
	flush := func() {
		if len(cur) == 0 {
			return
		}
		c := Card{
			Title:      cur["题目"],
			UpdateTime: cur["更新时间"],
			Category:   firstNonEmpty(cur["类别"], cur["分类"]),
			Tags:       SplitTags(cur["标签"]),
			Intro:      firstNonEmpty(cur["内容"], cur["引言"]),
			Link:       cur["链接"],
		}
		if c.Title != "" || c.Link != "" {
			cards = append(cards, c)
		}
		cur = map[string]string{}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		cur[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}
	flush()
	return cards
}

// SplitTags splits a tag line on ASCII and full-width separators.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.FieldsFunc(raw, isTagSep) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func isTagSep(r rune) bool {
	switch r {
	case ',', '，', '、', ';', '；':
		return true
	}
	return false
}

// Href is the link target of the card on the given article page. Links
// that already point at an .html page are used as-is.
func (c Card) Href(page string) string {
	link := strings.TrimSpace(c.Link)
	switch {
	case link == "":
		return "#"
	case strings.Contains(link, ".html"):
		return link
	}
	return page + "?path=" + strings.ReplaceAll(url.QueryEscape(link), "+", "%20")
}

// MetaPieces returns the non-empty parts of the card's meta line.
func (c Card) MetaPieces() []string {
	var pieces []string
	if c.UpdateTime != "" {
		pieces = append(pieces, c.UpdateTime)
	}
	if c.Category != "" {
		pieces = append(pieces, c.Category)
	}
	if len(c.Tags) > 0 {
		pieces = append(pieces, strings.Join(c.Tags, "、"))
	}
	return pieces
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
