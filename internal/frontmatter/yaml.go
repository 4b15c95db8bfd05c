package frontmatter

import (
	"fmt"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
)

// Modes accepted by ForMode.
const (
	ModeSimple = "simple"
	ModeYAML   = "yaml"
)

// Extractor splits a document into front matter and body.
type Extractor func(text string) (FrontMatter, string)

// ForMode returns the extractor for a configured mode. Unknown modes fall
// back to the simple line-based extractor.
func ForMode(mode string) Extractor {
	if strings.EqualFold(mode, ModeYAML) {
		return ExtractYAML
	}
	return Extract
}

// ExtractYAML parses a full YAML (or TOML) front matter block. Scalars are
// stringified and sequences become lists; nested mappings have no flat
// representation and are dropped. Any parse failure degrades to an empty
// FrontMatter and the original text as body, like Extract.
func ExtractYAML(text string) (FrontMatter, string) {
	var raw map[string]any
	rest, err := adrg.Parse(strings.NewReader(text), &raw)
	if err != nil || len(raw) == 0 {
		return FrontMatter{}, text
	}

	fm := make(FrontMatter, len(raw))
	for k, in := range raw {
		if v, ok := convert(in); ok {
			fm[k] = v
		}
	}
	return fm, strings.TrimLeft(string(rest), "\r\n")
}

func convert(in any) (Value, bool) {
	switch v := in.(type) {
	case nil:
		return Scalar(""), true
	case string:
		return Scalar(v), true
	case time.Time:
		return Scalar(formatTime(v)), true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := convert(item)
			if !ok || s.IsList() {
				continue
			}
			items = append(items, s.String())
		}
		return List(items...), true
	case []string:
		return List(v...), true
	case map[string]any, map[any]any:
		return Value{}, false
	default:
		return Scalar(fmt.Sprint(v)), true
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
