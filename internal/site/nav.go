package site

import "strings"

// Uncategorized labels articles whose category is empty.
const Uncategorized = "未分类"

// NavItem is one article link in the sidebar.
type NavItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NavFolder groups the articles of one second-level directory.
type NavFolder struct {
	Name     string    `json:"name"`
	Children []NavItem `json:"children"`
}

// Navigation is the sidebar tree of a section.
type Navigation struct {
	Root    []NavItem   `json:"root"`
	Folders []NavFolder `json:"folders"`
}

// BuildNavigation places every article either at the root or in the folder
// named by the second component of its path ("section/folder/file.md").
// Folders appear in first-seen order; items keep input order.
func BuildNavigation(articles []ArticleMeta) Navigation {
	nav := Navigation{Root: []NavItem{}, Folders: []NavFolder{}}
	pos := map[string]int{}
	for _, a := range articles {
		item := NavItem{Title: a.Title, Path: a.Path}
		parts := strings.Split(a.Path, "/")
		if len(parts) <= 2 {
			nav.Root = append(nav.Root, item)
			continue
		}
		folder := parts[1]
		i, ok := pos[folder]
		if !ok {
			i = len(nav.Folders)
			pos[folder] = i
			nav.Folders = append(nav.Folders, NavFolder{Name: folder})
		}
		nav.Folders[i].Children = append(nav.Folders[i].Children, item)
	}
	return nav
}

// CategoryGroup is the articles sharing one category.
type CategoryGroup struct {
	Category string        `json:"category"`
	Articles []ArticleMeta `json:"articles"`
}

// GroupByCategory groups articles by category in first-seen order.
func GroupByCategory(articles []ArticleMeta) []CategoryGroup {
	groups := []CategoryGroup{}
	pos := map[string]int{}
	for _, a := range articles {
		c := a.Category
		if c == "" {
			c = Uncategorized
		}
		i, ok := pos[c]
		if !ok {
			i = len(groups)
			pos[c] = i
			groups = append(groups, CategoryGroup{Category: c})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	return groups
}
