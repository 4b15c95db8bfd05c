package library

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/markdown"
)

// memStore is an in-memory storage.Provider.
type memStore struct {
	files map[string]string
}

func (m *memStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("mem: %s: %w", path, apperr.ErrNotFound)
	}
	return []byte(s), nil
}

func testSections() []Section {
	return []Section{
		{Name: "knowledge", Manifest: "data/knowledge-list.txt", Show: "data/knowledge-show.txt", Page: "knowledge.html", DefaultTitle: "知识库"},
		{Name: "projects", Manifest: "data/projects-list.txt", Page: "projects.html", DefaultTitle: "项目集"},
	}
}

func testStore() *memStore {
	return &memStore{files: map[string]string{
		"data/knowledge-list.txt": "# list\n/知识库/intro.md\n知识库/go/chan.md\n知识库/missing.md\n知识库/go/ctx.md\n",
		"data/knowledge-show.txt": "题目: Intro\n链接: 知识库/intro.md\n标签: a、b\n\n题目: Ext\n链接: https://x.dev/page.html\n",
		"知识库/intro.md":          "---\n题目: 入门\n分类: 基础\n标签: [start]\n---\n# 入门\n\nHello **world**",
		"知识库/go/chan.md":        "---\n题目: Channels\n分类: Go\n---\n## Send\n## Receive",
		"知识库/go/ctx.md":          "# no front matter",
	}}
}

func TestAllMeta_OrderAndSkip(t *testing.T) {
	svc := NewService(testStore(), testSections(), WithConcurrency(2))
	metas, err := svc.AllMeta(context.Background(), "knowledge")
	if err != nil {
		t.Fatalf("AllMeta: %v", err)
	}
	var got []string
	for _, m := range metas {
		got = append(got, m.Title)
	}
	want := []string{"入门", "Channels", "ctx"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if metas[0].Path != "/知识库/intro.md" {
		t.Errorf("path = %q, manifest spelling should be kept", metas[0].Path)
	}
}

func TestAllMeta_Canceled(t *testing.T) {
	svc := NewService(testStore(), testSections())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.AllMeta(ctx, "knowledge"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestUnknownSection(t *testing.T) {
	svc := NewService(testStore(), testSections())
	if _, err := svc.Manifest(context.Background(), "blog"); !errors.Is(err, apperr.ErrUnknownSection) {
		t.Errorf("err = %v", err)
	}
}

func TestMissingManifest(t *testing.T) {
	svc := NewService(testStore(), testSections())
	if _, err := svc.AllMeta(context.Background(), "projects"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestArticle(t *testing.T) {
	svc := NewService(testStore(), testSections())
	for _, p := range []string{"知识库/intro.md", "/知识库/intro.md"} {
		a, err := svc.Article(context.Background(), "knowledge", p)
		if err != nil {
			t.Fatalf("Article(%q): %v", p, err)
		}
		if a.Meta.Title != "入门" || a.Meta.Category != "基础" {
			t.Errorf("meta = %+v", a.Meta)
		}
		if !strings.Contains(a.HTML, `<h1 id="heading-1-0">入门</h1>`) {
			t.Errorf("html = %s", a.HTML)
		}
		if !strings.Contains(a.HTML, "<strong>world</strong>") {
			t.Errorf("html = %s", a.HTML)
		}
		if len(a.Headings) != 1 || a.Checksum == "" {
			t.Errorf("headings = %+v checksum = %q", a.Headings, a.Checksum)
		}
	}
}

func TestArticle_NotInManifest(t *testing.T) {
	store := testStore()
	store.files["知识库/secret.md"] = "hidden"
	svc := NewService(store, testSections())
	if _, err := svc.Article(context.Background(), "knowledge", "知识库/secret.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Meta(context.Background(), "knowledge", "知识库/missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("listed but missing file err = %v", err)
	}
}

func TestNavigationAndCategories(t *testing.T) {
	svc := NewService(testStore(), testSections())
	ctx := context.Background()

	nav, err := svc.Navigation(ctx, "knowledge")
	if err != nil {
		t.Fatal(err)
	}
	// "/知识库/intro.md" has three components, so its folder is 知识库.
	if len(nav.Folders) != 2 || nav.Folders[0].Name != "知识库" || nav.Folders[1].Name != "go" {
		t.Fatalf("folders = %+v", nav.Folders)
	}
	if len(nav.Folders[1].Children) != 2 {
		t.Errorf("go children = %+v", nav.Folders[1].Children)
	}
	if len(nav.Root) != 0 {
		t.Errorf("root = %+v", nav.Root)
	}

	groups, err := svc.Categories(ctx, "knowledge")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, g := range groups {
		names = append(names, g.Category)
	}
	if !reflect.DeepEqual(names, []string{"基础", "Go", "未分类"}) {
		t.Errorf("categories = %v", names)
	}
}

func TestCards(t *testing.T) {
	svc := NewService(testStore(), testSections())
	cards, err := svc.Cards(context.Background(), "knowledge")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("len = %d", len(cards))
	}
	if cards[0].Href != "knowledge.html?path=%E7%9F%A5%E8%AF%86%E5%BA%93%2Fintro.md" {
		t.Errorf("href = %s", cards[0].Href)
	}
	if !reflect.DeepEqual(cards[0].Meta, []string{"a、b"}) {
		t.Errorf("meta = %v", cards[0].Meta)
	}
	if cards[1].Href != "https://x.dev/page.html" {
		t.Errorf("href = %s", cards[1].Href)
	}

	empty, err := svc.Cards(context.Background(), "projects")
	if err != nil || len(empty) != 0 {
		t.Errorf("projects cards = %v, %v", empty, err)
	}
}

func TestRender_Options(t *testing.T) {
	svc := NewService(testStore(), testSections(),
		WithRenderer(markdown.NewGoldmark()),
		WithExtractor(frontmatter.ExtractYAML),
	)
	r := svc.Render("---\ntitle: Hi\ntags:\n  - a\n  - b\n---\n# Top\n")
	if r.FrontMatter.String("title") != "Hi" {
		t.Errorf("front matter = %v", r.FrontMatter)
	}
	if got := r.FrontMatter.Strings("tags"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("tags = %v", got)
	}
	if len(r.Headings) != 1 || r.Headings[0].Text != "Top" {
		t.Errorf("headings = %+v", r.Headings)
	}
}

func TestRender_EmptyHeadingsNotNil(t *testing.T) {
	svc := NewService(testStore(), testSections())
	r := svc.Render("plain")
	if r.Headings == nil {
		t.Error("headings should be an empty slice")
	}
	if r.HTML != "<p>plain</p>" {
		t.Errorf("html = %q", r.HTML)
	}
}
