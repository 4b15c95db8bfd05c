package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/markdown"
)

// ArticleRow is one row of the articles table.
type ArticleRow struct {
	Section    string             `json:"section"`
	Path       string             `json:"path"`
	Position   int                `json:"position"`
	Title      string             `json:"title"`
	UpdateTime string             `json:"update_time"`
	Category   string             `json:"category"`
	Tags       []string           `json:"tags"`
	Intro      string             `json:"intro"`
	Checksum   string             `json:"checksum"`
	HTML       string             `json:"-"`
	Headings   []markdown.Heading `json:"headings"`
	Body       string             `json:"-"`
	IndexedAt  time.Time          `json:"indexed_at"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Section string `json:"section"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertArticle inserts or replaces an article and its FTS entry within a
// transaction.
func (db *DB) UpsertArticle(ctx context.Context, a ArticleRow) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tags, _ := json.Marshal(nonNil(a.Tags))
	headings, _ := json.Marshal(nonNil(a.Headings))
	if a.IndexedAt.IsZero() {
		a.IndexedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO articles (section, path, position, title, update_time, category, tags, intro,
		                      checksum, html, headings, body, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(section, path) DO UPDATE SET
			position    = excluded.position,
			title       = excluded.title,
			update_time = excluded.update_time,
			category    = excluded.category,
			tags        = excluded.tags,
			intro       = excluded.intro,
			checksum    = excluded.checksum,
			html        = excluded.html,
			headings    = excluded.headings,
			body        = excluded.body,
			indexed_at  = excluded.indexed_at
	`, a.Section, a.Path, a.Position, a.Title, a.UpdateTime, a.Category, string(tags), a.Intro,
		a.Checksum, a.HTML, string(headings), a.Body, a.IndexedAt)
	if err != nil {
		return fmt.Errorf("index: upsert article: %w", err)
	}

	// No-op when the FTS5 tag is absent.
	if err := ftsUpsert(ctx, tx, a); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteArticle removes an article and its FTS entry.
func (db *DB) DeleteArticle(ctx context.Context, section, path string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(ctx, tx, section, path)
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE section = ? AND path = ?`, section, path); err != nil {
		return fmt.Errorf("index: delete article: %w", err)
	}
	return tx.Commit()
}

// SetPosition records the manifest position of an unchanged article.
func (db *DB) SetPosition(ctx context.Context, section, path string, pos int) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE articles SET position = ? WHERE section = ? AND path = ?`, pos, section, path)
	if err != nil {
		return fmt.Errorf("index: set position: %w", err)
	}
	return nil
}

// Checksums returns path → checksum for every indexed article of section.
func (db *DB) Checksums(ctx context.Context, section string) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT path, checksum FROM articles WHERE section = ?`, section)
	if err != nil {
		return nil, fmt.Errorf("index: checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

const selectArticle = `
	SELECT section, path, position, title, update_time, category, tags, intro,
	       checksum, html, headings, body, indexed_at
	FROM articles`

// GetArticle returns one indexed article.
func (db *DB) GetArticle(ctx context.Context, section, path string) (*ArticleRow, error) {
	row := db.conn.QueryRowContext(ctx, selectArticle+` WHERE section = ? AND path = ?`, section, path)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: %s/%s: %w", section, path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get article: %w", err)
	}
	return a, nil
}

// ListArticles returns the indexed articles of section in manifest order.
// An empty section lists every section.
func (db *DB) ListArticles(ctx context.Context, section string) ([]ArticleRow, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectArticle+` WHERE (? = '' OR section = ?) ORDER BY section, position`, section, section)
	if err != nil {
		return nil, fmt.Errorf("index: list articles: %w", err)
	}
	defer rows.Close()

	out := []ArticleRow{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("index: list articles: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (*ArticleRow, error) {
	var (
		a        ArticleRow
		tags     string
		headings string
	)
	err := s.Scan(&a.Section, &a.Path, &a.Position, &a.Title, &a.UpdateTime, &a.Category, &tags,
		&a.Intro, &a.Checksum, &a.HTML, &headings, &a.Body, &a.IndexedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(headings), &a.Headings); err != nil {
		return nil, fmt.Errorf("decode headings: %w", err)
	}
	return &a, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
