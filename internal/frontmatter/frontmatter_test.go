package frontmatter

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestExtract_TitleAndTags(t *testing.T) {
	fm, body := Extract("---\ntitle: A\ntags: [a, b]\n---\nBody")
	if body != "Body" {
		t.Errorf("body = %q, want %q", body, "Body")
	}
	if got := fm.String("title"); got != "A" {
		t.Errorf("title = %q, want A", got)
	}
	tags := fm["tags"]
	if !tags.IsList() {
		t.Fatalf("tags should be a list, got %#v", tags)
	}
	if got := tags.Strings(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", got)
	}
	if len(fm) != 2 {
		t.Errorf("len(fm) = %d, want 2", len(fm))
	}
}

func TestExtract_NoFrontMatterReturnsInput(t *testing.T) {
	cases := []string{
		"",
		"# Just a heading\nSome text.\n",
		"---\ntitle: unterminated\nbody",
		"---\ntitle: no newline after close\n---",
		"\n---\ntitle: leading newline\n---\nbody",
		" ---\ntitle: leading space\n---\nbody",
		"----\ntitle: four dashes\n---\nbody",
		"---\n---\nbody",
	}
	for _, in := range cases {
		fm, body := Extract(in)
		if len(fm) != 0 {
			t.Errorf("Extract(%q) metadata = %v, want empty", in, fm)
		}
		if body != in {
			t.Errorf("Extract(%q) body = %q, want input unchanged", in, body)
		}
	}
}

func TestExtract_QuoteStripping(t *testing.T) {
	fm, _ := Extract("---\na: \"x\"\nb: 'y'\nc: \"\"z\"\"\nd: \"mixed'\ne: \"\n---\n")
	want := map[string]string{
		"a": "x",
		"b": "y",
		"c": `"z"`,
		"d": `"mixed'`,
		"e": `"`,
	}
	for k, w := range want {
		if got := fm.String(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
}

func TestExtract_QuotedList(t *testing.T) {
	fm, _ := Extract("---\ntags: \"['go', \"web\" , x]\"\nempty: []\n---\n")
	if got := fm.Strings("tags"); !reflect.DeepEqual(got, []string{"go", "web", "x"}) {
		t.Errorf("tags = %q", got)
	}
	empty := fm["empty"]
	if !empty.IsList() || len(empty.Strings()) != 0 {
		t.Errorf("empty list = %#v", empty)
	}
}

func TestExtract_SkipsMalformedLines(t *testing.T) {
	fm, body := Extract("---\nno colon here\n: empty key\nurl: https://example.com/a:b\n---\nrest\n")
	if len(fm) != 1 {
		t.Fatalf("fm = %v, want only url", fm)
	}
	if got := fm.String("url"); got != "https://example.com/a:b" {
		t.Errorf("url = %q", got)
	}
	if body != "rest\n" {
		t.Errorf("body = %q", body)
	}
}

func TestExtract_LastWriteWins(t *testing.T) {
	fm, _ := Extract("---\ntitle: first\ntitle: second\n---\n")
	if got := fm.String("title"); got != "second" {
		t.Errorf("title = %q, want second", got)
	}
}

func TestExtract_CRLFAndChineseKeys(t *testing.T) {
	fm, body := Extract("---\r\n题目: 你好\r\n标签: [笔记, Go]\r\n---\r\n正文")
	if got := fm.String("题目"); got != "你好" {
		t.Errorf("题目 = %q", got)
	}
	if got := fm.Strings("标签"); !reflect.DeepEqual(got, []string{"笔记", "Go"}) {
		t.Errorf("标签 = %q", got)
	}
	if body != "正文" {
		t.Errorf("body = %q", body)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	in := "---\ntitle: A\ntags: [x, y]\n---\nbody"
	fm1, b1 := Extract(in)
	fm2, b2 := Extract(in)
	if !reflect.DeepEqual(fm1, fm2) || b1 != b2 {
		t.Error("Extract is not deterministic")
	}
}

func TestFrontMatter_Helpers(t *testing.T) {
	fm := FrontMatter{
		"tags":  Scalar("solo"),
		"blank": Scalar(""),
		"list":  List("a", "b"),
	}
	if got := fm.Strings("tags"); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Errorf("scalar tags = %v", got)
	}
	if got := fm.Strings("blank"); got != nil {
		t.Errorf("blank = %v, want nil", got)
	}
	if got := fm.Strings("missing"); got != nil {
		t.Errorf("missing = %v, want nil", got)
	}
	if got := fm.String("list"); got != "a, b" {
		t.Errorf("list string = %q", got)
	}
	if v, ok := fm.Lookup("nope", "list"); !ok || !v.IsList() {
		t.Errorf("Lookup fell through incorrectly: %v %v", v, ok)
	}
	if _, ok := fm.Lookup("nope"); ok {
		t.Error("Lookup should miss")
	}

	// Mutating the returned slice must not leak into the value.
	got := fm.Strings("list")
	got[0] = "changed"
	if fm.Strings("list")[0] != "a" {
		t.Error("Strings returned shared backing array")
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(FrontMatter{"title": Scalar("A"), "tags": List("x", "y")})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"tags":["x","y"],"title":"A"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var fm FrontMatter
	if err := json.Unmarshal([]byte(`{"title":"A","tags":["x"]}`), &fm); err != nil {
		t.Fatal(err)
	}
	if fm.String("title") != "A" || !fm["tags"].IsList() || fm.String("tags") != "x" {
		t.Errorf("fm = %#v", fm)
	}
	if err := json.Unmarshal([]byte(`{"n":3}`), &fm); err == nil {
		t.Error("numbers should be rejected")
	}
}

func TestExtractYAML(t *testing.T) {
	fm, body := ExtractYAML("---\ntitle: Hello\ntags:\n  - go\n  - web\ncount: 3\nnested:\n  a: b\n---\nBody\n")
	if got := fm.String("title"); got != "Hello" {
		t.Errorf("title = %q", got)
	}
	if got := fm.Strings("tags"); !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Errorf("tags = %v", got)
	}
	if got := fm.String("count"); got != "3" {
		t.Errorf("count = %q", got)
	}
	if fm.Has("nested") {
		t.Error("nested mapping should be dropped")
	}
	if strings.TrimSpace(body) != "Body" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractYAML_Fallback(t *testing.T) {
	in := "plain text only"
	fm, body := ExtractYAML(in)
	if len(fm) != 0 || body != in {
		t.Errorf("fallback = %v %q", fm, body)
	}
}

func TestForMode(t *testing.T) {
	in := "---\ntags: [a]\n---\n"
	if fm, _ := ForMode("simple")(in); !fm["tags"].IsList() {
		t.Error("simple mode should use inline list syntax")
	}
	if fm, _ := ForMode("unknown")(in); !fm["tags"].IsList() {
		t.Error("unknown mode should fall back to simple")
	}
	if fm, _ := ForMode("YAML")(in); !reflect.DeepEqual(fm.Strings("tags"), []string{"a"}) {
		t.Errorf("yaml mode tags = %v", fm.Strings("tags"))
	}
}
