package index

import (
	"context"
	"log/slog"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/library"
)

// Change kinds reported by Sync and Watch.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Change is one article mutation applied to the index.
type Change struct {
	Kind    string `json:"kind"`
	Section string `json:"section"`
	Path    string `json:"path"`
}

// Sync reconciles every section of lib with the index.
func Sync(ctx context.Context, db ArticleIndex, lib *library.Service, logger *slog.Logger) ([]Change, error) {
	var all []Change
	for _, sec := range lib.Sections() {
		changes, err := SyncSection(ctx, db, lib, sec.Name, logger)
		if err != nil {
			logger.Warn("sync: section failed", slog.String("section", sec.Name), slog.String("error", err.Error()))
			continue
		}
		all = append(all, changes...)
	}
	return all, ctx.Err()
}

// SyncSection brings one section of the index up to date with its manifest:
//   - new/changed articles are rendered and upserted
//   - articles dropped from the manifest, or whose file is gone, are deleted
func SyncSection(ctx context.Context, db ArticleIndex, lib *library.Service, section string, logger *slog.Logger) ([]Change, error) {
	paths, err := lib.Manifest(ctx, section)
	if err != nil {
		return nil, err
	}
	stored, err := db.Checksums(ctx, section)
	if err != nil {
		return nil, err
	}

	var changes []Change
	listed := make(map[string]struct{}, len(paths))
	for pos, p := range paths {
		if err := ctx.Err(); err != nil {
			return changes, err
		}
		if _, dup := listed[p]; dup {
			continue
		}
		data, err := lib.Read(ctx, p)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		listed[p] = struct{}{}

		old, known := stored[p]
		if known && old == checksum.Sum(data) {
			if err := db.SetPosition(ctx, section, p, pos); err != nil {
				logger.Warn("sync: reorder failed", slog.String("path", p), slog.String("error", err.Error()))
			}
			continue
		}

		row := RowFromArticle(lib.Parse(section, p, data), pos)
		if err := db.UpsertArticle(ctx, row); err != nil {
			logger.Warn("sync: index failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		kind := KindCreated
		if known {
			kind = KindUpdated
		}
		logger.Debug("sync: indexed", slog.String("section", section), slog.String("path", p), slog.String("op", kind))
		changes = append(changes, Change{Kind: kind, Section: section, Path: p})
	}

	// Remove stale entries.
	for p := range stored {
		if _, ok := listed[p]; ok {
			continue
		}
		if err := db.DeleteArticle(ctx, section, p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("section", section), slog.String("path", p))
		changes = append(changes, Change{Kind: KindDeleted, Section: section, Path: p})
	}
	return changes, nil
}

// RowFromArticle flattens a rendered article into an index row.
func RowFromArticle(a *library.Article, pos int) ArticleRow {
	return ArticleRow{
		Section:    a.Section,
		Path:       a.Meta.Path,
		Position:   pos,
		Title:      a.Meta.Title,
		UpdateTime: a.Meta.UpdateTime,
		Category:   a.Meta.Category,
		Tags:       a.Meta.Tags,
		Intro:      a.Meta.Intro,
		Checksum:   a.Checksum,
		HTML:       a.HTML,
		Headings:   a.Headings,
		Body:       a.Body,
	}
}
