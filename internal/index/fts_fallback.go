//go:build !sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the articles table.
	return nil
}

func ftsUpsert(_ context.Context, _ *sql.Tx, _ ArticleRow) error {
	return nil
}

func ftsDelete(_ context.Context, _ *sql.Tx, _, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
// An empty section searches every section.
func (db *DB) Search(ctx context.Context, query, section string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT section, path, title, substr(body, 1, 200)
		FROM articles
		WHERE (title LIKE ? OR body LIKE ? OR tags LIKE ? OR intro LIKE ?)
		  AND (? = '' OR section = ?)
		ORDER BY section, position
		LIMIT ?
	`, like, like, like, like, section, section, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Section, &r.Path, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
