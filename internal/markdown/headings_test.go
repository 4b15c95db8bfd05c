package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssignHeadingIDs_Outline(t *testing.T) {
	out, headings := AssignHeadingIDs(Render("# A\n## B\n### C"))
	want := []Heading{
		{Level: 1, Text: "A", ID: "heading-1-0"},
		{Level: 2, Text: "B", ID: "heading-2-0"},
	}
	if !reflect.DeepEqual(headings, want) {
		t.Errorf("headings = %+v, want %+v", headings, want)
	}
	if !strings.Contains(out, `<h1 id="heading-1-0">A</h1>`) {
		t.Errorf("h1 id missing: %s", out)
	}
	if !strings.Contains(out, `<h2 id="heading-2-0">B</h2>`) {
		t.Errorf("h2 id missing: %s", out)
	}
	if !strings.Contains(out, "<h3>C</h3>") {
		t.Errorf("h3 should be rendered without id: %s", out)
	}
}

func TestAssignHeadingIDs_IndependentCountersDocumentOrder(t *testing.T) {
	_, headings := AssignHeadingIDs(Render("## one\n# two\n## three\n# four"))
	want := []Heading{
		{Level: 2, Text: "one", ID: "heading-2-0"},
		{Level: 1, Text: "two", ID: "heading-1-0"},
		{Level: 2, Text: "three", ID: "heading-2-1"},
		{Level: 1, Text: "four", ID: "heading-1-1"},
	}
	if !reflect.DeepEqual(headings, want) {
		t.Errorf("headings = %+v, want %+v", headings, want)
	}
}

func TestAssignHeadingIDs_TextIsTagStripped(t *testing.T) {
	_, headings := AssignHeadingIDs(Render("#  **Bold** and `code` "))
	if len(headings) != 1 {
		t.Fatalf("len = %d", len(headings))
	}
	if headings[0].Text != "Bold and code" {
		t.Errorf("text = %q", headings[0].Text)
	}
}

func TestAssignHeadingIDs_Idempotent(t *testing.T) {
	src := "# Intro\ntext\n## Part\n## Part again"
	out1, h1 := AssignHeadingIDs(Render(src))
	out2, h2 := AssignHeadingIDs(out1)
	if !reflect.DeepEqual(h1, h2) {
		t.Errorf("outline changed on re-run: %+v vs %+v", h1, h2)
	}
	if out1 != out2 {
		t.Errorf("fragment changed on re-run:\n%s\n%s", out1, out2)
	}

	_, again := AssignHeadingIDs(Render(src))
	if !reflect.DeepEqual(h1, again) {
		t.Errorf("re-render changed ids: %+v vs %+v", h1, again)
	}
}

func TestAssignHeadingIDs_ReplacesExistingID(t *testing.T) {
	out, _ := AssignHeadingIDs(`<h1 id="custom" class="x">T</h1>`)
	if strings.Count(out, "id=") != 1 || !strings.Contains(out, `id="heading-1-0"`) {
		t.Errorf("out = %s", out)
	}
	if !strings.Contains(out, `class="x"`) {
		t.Errorf("other attributes lost: %s", out)
	}
}

func TestAssignHeadingIDs_Empty(t *testing.T) {
	out, headings := AssignHeadingIDs("")
	if out != "" || headings != nil {
		t.Errorf("got %q %v", out, headings)
	}
	out, headings = AssignHeadingIDs("<p>no headings</p>")
	if out != "<p>no headings</p>" || len(headings) != 0 {
		t.Errorf("got %q %v", out, headings)
	}
}

func TestConvert(t *testing.T) {
	doc := Convert(Dialect{}, "# Title\n\nBody")
	if len(doc.Headings) != 1 || doc.Headings[0].ID != "heading-1-0" {
		t.Errorf("headings = %+v", doc.Headings)
	}
	if !strings.Contains(doc.HTML, "<p>Body</p>") {
		t.Errorf("html = %s", doc.HTML)
	}
}

func TestNewRenderer(t *testing.T) {
	for _, name := range []string{"", "dialect", "Dialect"} {
		r, err := NewRenderer(name)
		if err != nil {
			t.Fatalf("NewRenderer(%q): %v", name, err)
		}
		if r.Name() != EngineDialect {
			t.Errorf("NewRenderer(%q) = %s", name, r.Name())
		}
	}
	if _, err := NewRenderer("pandoc"); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestGoldmark(t *testing.T) {
	r, err := NewRenderer(EngineGoldmark)
	if err != nil {
		t.Fatal(err)
	}
	if r.Render("") != "" {
		t.Error("empty input should render empty")
	}
	doc := Convert(r, "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n## Sub")
	if !strings.Contains(doc.HTML, "<table>") {
		t.Errorf("goldmark should render GFM tables: %s", doc.HTML)
	}
	want := []Heading{
		{Level: 1, Text: "Title", ID: "heading-1-0"},
		{Level: 2, Text: "Sub", ID: "heading-2-0"},
	}
	if !reflect.DeepEqual(doc.Headings, want) {
		t.Errorf("headings = %+v", doc.Headings)
	}
}
