// Package storage reads site content: manifests, show lists and articles.
package storage

import "context"

// Provider is the read side of a content source. Paths are relative to the
// site root and use forward slashes. A missing file yields an error that
// matches apperr.ErrNotFound.
type Provider interface {
	Read(ctx context.Context, path string) ([]byte, error)
}
