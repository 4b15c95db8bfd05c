package markdown

import (
	"regexp"
	"strings"
)

var (
	fenceRe      = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")

	h3Re = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re = regexp.MustCompile(`(?m)^# (.*)$`)

	strongStarRe  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnderRe = regexp.MustCompile(`__(.+?)__`)
	emStarRe      = regexp.MustCompile(`\*(.+?)\*`)
	emUnderRe     = regexp.MustCompile(`_(.+?)_`)

	imageRe = regexp.MustCompile(`!\[([^\]]*?)\]\(([^)]+?)\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+?)\]\(([^)]+?)\)`)

	listItemRe = regexp.MustCompile(`(?m)^(?:[*+-]|\d+\.) (.+)$`)

	blockLineRe = regexp.MustCompile(`^<(h[1-6]|ul|ol|li|pre)`)
)

func normalize(b buffer) buffer {
	r := strings.NewReplacer("\r\n", "\n", openMark, "", closeMark, "")
	return b.withText(r.Replace(b.text))
}

// extractFences swaps every fenced block for a placeholder so no later pass
// can interpret its contents.
func extractFences(b buffer) buffer {
	out := b
	text := fenceRe.ReplaceAllStringFunc(b.text, func(m string) string {
		var ph string
		out, ph = out.protect(fragment{raw: m, block: true})
		return ph
	})
	return out.withText(text)
}

func inlineCode(b buffer) buffer {
	out := b
	text := inlineCodeRe.ReplaceAllStringFunc(b.text, func(m string) string {
		var ph string
		out, ph = out.protect(fragment{raw: m, html: "<code>" + m[1:len(m)-1] + "</code>"})
		return ph
	})
	return out.withText(text)
}

// restoreFences renders stashed fences as escaped preformatted blocks. The
// result stays behind its placeholder until splice.
func restoreFences(b buffer) buffer {
	stash := make([]fragment, len(b.stash))
	for i, f := range b.stash {
		if f.block {
			code := strings.TrimSpace(strings.ReplaceAll(f.raw, "```", ""))
			f.html = "<pre><code>" + Escape(code) + "</code></pre>"
		}
		stash[i] = f
	}
	return buffer{text: b.text, stash: stash}
}

func headings(b buffer) buffer {
	text := h3Re.ReplaceAllString(b.text, "<h3>${1}</h3>")
	text = h2Re.ReplaceAllString(text, "<h2>${1}</h2>")
	text = h1Re.ReplaceAllString(text, "<h1>${1}</h1>")
	return b.withText(text)
}

// emphasis matches bold before italic so "**x**" is never read as two
// single-star spans.
func emphasis(b buffer) buffer {
	text := strongStarRe.ReplaceAllString(b.text, "<strong>${1}</strong>")
	text = strongUnderRe.ReplaceAllString(text, "<strong>${1}</strong>")
	text = emStarRe.ReplaceAllString(text, "<em>${1}</em>")
	text = emUnderRe.ReplaceAllString(text, "<em>${1}</em>")
	return b.withText(text)
}

// imagesAndLinks runs images first; otherwise the link pattern would claim
// the bracketed part of every image.
func imagesAndLinks(b buffer) buffer {
	text := imageRe.ReplaceAllString(b.text, `<img src="${2}" alt="${1}">`)
	text = linkRe.ReplaceAllString(text, `<a href="${2}">${1}</a>`)
	return b.withText(text)
}

func listItems(b buffer) buffer {
	text := listItemRe.ReplaceAllStringFunc(b.text, func(m string) string {
		if b.holdsBlock(m) {
			return m
		}
		return "<li>" + listItemRe.FindStringSubmatch(m)[1] + "</li>"
	})
	return b.withText(text)
}

// groupLists wraps each run of item lines in a single <ul>. Blank lines
// between items do not break the run. Ordered markers also end up in a
// <ul>: the marker kind is not tracked past listItems.
func groupLists(b buffer) buffer {
	lines := strings.Split(b.text, "\n")
	out := make([]string, 0, len(lines))
	var items []string
	blanks := 0

	flush := func() {
		if len(items) > 0 {
			out = append(out, "<ul>"+strings.Join(items, "")+"</ul>")
			items = nil
		}
		for ; blanks > 0; blanks-- {
			out = append(out, "")
		}
	}

	for _, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(t, "<li>") && strings.HasSuffix(t, "</li>"):
			blanks = 0
			items = append(items, t)
		case t == "" && len(items) > 0:
			blanks++
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()
	return b.withText(strings.Join(out, "\n"))
}

// paragraphs joins runs of plain lines with a space and wraps each run in
// <p>. Blank lines and block-level lines end a run; block lines pass through.
func paragraphs(b buffer) buffer {
	var blocks, run []string
	closeRun := func() {
		if len(run) > 0 {
			blocks = append(blocks, "<p>"+strings.Join(run, " ")+"</p>")
			run = nil
		}
	}

	for _, line := range strings.Split(b.text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			closeRun()
		case b.isBlockLine(line):
			closeRun()
			blocks = append(blocks, line)
		default:
			run = append(run, line)
		}
	}
	closeRun()
	return b.withText(strings.Join(blocks, "\n"))
}

func lineBreaks(b buffer) buffer {
	return b.withText(strings.ReplaceAll(b.text, "\n", "<br>"))
}

// splice substitutes protected fragments back in. It walks the stash from
// the end because a later fragment may embed an earlier placeholder.
func splice(b buffer) buffer {
	text := b.text
	for i := len(b.stash) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, placeholder(i), b.stash[i].html)
	}
	return buffer{text: text}
}

func (b buffer) isBlockLine(line string) bool {
	if i, ok := placeholderIndex(line); ok && i < len(b.stash) {
		return b.stash[i].block
	}
	return blockLineRe.MatchString(line)
}

// holdsBlock reports whether s contains a code block placeholder.
func (b buffer) holdsBlock(s string) bool {
	if !strings.Contains(s, openMark) {
		return false
	}
	for i, f := range b.stash {
		if f.block && strings.Contains(s, placeholder(i)) {
			return true
		}
	}
	return false
}
