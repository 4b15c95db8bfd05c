// Package frontmatter splits a document into its leading metadata block and body.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// blockRe matches a leading "---" block closed by a second "---" line that is
// itself followed by a newline. Group 1 is the metadata text, group 2 the body.
var blockRe = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n(.*)\z`)

// Value is a front matter field value: either a scalar string or an ordered
// list of strings written as `[a, b, c]`.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a single-valued field.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List returns a multi-valued field.
func List(items ...string) Value {
	return Value{list: append([]string{}, items...), isList: true}
}

// IsList reports whether the value came from the inline list syntax.
func (v Value) IsList() bool { return v.isList }

// String returns the scalar text. Lists are joined with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.scalar
}

// Strings returns the value as a list. A non-empty scalar becomes a
// one-element list and an empty scalar yields nil.
func (v Value) Strings() []string {
	if v.isList {
		return append([]string{}, v.list...)
	}
	if v.scalar == "" {
		return nil
	}
	return []string{v.scalar}
}

// MarshalJSON encodes scalars as JSON strings and lists as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.Strings())
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*v = List(items...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("frontmatter: value must be a string or list: %w", err)
	}
	*v = Scalar(s)
	return nil
}

// FrontMatter maps field names to values. Absent keys are simply missing;
// no defaults are injected.
type FrontMatter map[string]Value

// Has reports whether key is present.
func (fm FrontMatter) Has(key string) bool {
	_, ok := fm[key]
	return ok
}

// String returns the text of key, or "" when absent.
func (fm FrontMatter) String(key string) string {
	return fm[key].String()
}

// Strings returns key normalised to a list, whatever form the source used.
func (fm FrontMatter) Strings(key string) []string {
	v, ok := fm[key]
	if !ok {
		return nil
	}
	return v.Strings()
}

// Lookup returns the value of the first key that is present.
func (fm FrontMatter) Lookup(keys ...string) (Value, bool) {
	for _, k := range keys {
		if v, ok := fm[k]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Extract splits text into front matter and body. When text does not open
// with a complete "---" delimited block the result is an empty FrontMatter
// and the unmodified input as body.
func Extract(text string) (FrontMatter, string) {
	m := blockRe.FindStringSubmatch(text)
	if m == nil {
		return FrontMatter{}, text
	}

	fm := FrontMatter{}
	for _, line := range strings.Split(m[1], "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		fm[key] = parseValue(strings.TrimSpace(line[idx+1:]))
	}
	return fm, m[2]
}

func parseValue(raw string) Value {
	v := unquote(raw)
	if len(v) >= 2 && v[0] == '[' && v[len(v)-1] == ']' {
		inner := strings.TrimSpace(v[1 : len(v)-1])
		if inner == "" {
			return List()
		}
		parts := strings.Split(inner, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(p)))
		}
		return List(items...)
	}
	return Scalar(v)
}

// unquote strips exactly one pair of matching outer quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
