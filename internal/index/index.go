package index

import "context"

// ArticleIndex is the read/write surface of the article index. Consumers
// depend on it rather than on *DB.
type ArticleIndex interface {
	UpsertArticle(ctx context.Context, a ArticleRow) error
	DeleteArticle(ctx context.Context, section, path string) error
	SetPosition(ctx context.Context, section, path string, pos int) error
	Checksums(ctx context.Context, section string) (map[string]string, error)
	GetArticle(ctx context.Context, section, path string) (*ArticleRow, error)
	ListArticles(ctx context.Context, section string) ([]ArticleRow, error)
	Search(ctx context.Context, query, section string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies ArticleIndex at compile time.
var _ ArticleIndex = (*DB)(nil)
