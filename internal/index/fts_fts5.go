//go:build sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
			section UNINDEXED,
			path UNINDEXED,
			title,
			body,
			tags,
			intro,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(ctx context.Context, tx *sql.Tx, a ArticleRow) error {
	_, _ = tx.ExecContext(ctx, `DELETE FROM articles_fts WHERE section = ? AND path = ?`, a.Section, a.Path)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO articles_fts (section, path, title, body, tags, intro) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Section, a.Path, a.Title, a.Body, strings.Join(a.Tags, " "), a.Intro)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(ctx context.Context, tx *sql.Tx, section, path string) {
	_, _ = tx.ExecContext(ctx, `DELETE FROM articles_fts WHERE section = ? AND path = ?`, section, path)
}

// Search performs an FTS5 full-text search and returns matching results
// with snippets. An empty section searches every section.
func (db *DB) Search(ctx context.Context, query, section string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT section,
		       path,
		       title,
		       snippet(articles_fts, 3, '<b>', '</b>', '...', 64)
		FROM articles_fts
		WHERE articles_fts MATCH ? AND (? = '' OR section = ?)
		ORDER BY rank
		LIMIT ?
	`, query, section, section, limit)
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
