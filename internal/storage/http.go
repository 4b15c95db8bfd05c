package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/folio/internal/apperr"
)

// maxBody caps a single fetched file.
const maxBody = 8 << 20

// HTTP implements Provider by fetching files below a base URL, the way a
// browser loads the published site.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP creates a provider for the site published at baseURL.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("storage: base url must be http(s): %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTP{base: u, client: &http.Client{Timeout: timeout}}, nil
}

// Read fetches path relative to the base URL.
func (h *HTTP) Read(ctx context.Context, path string) ([]byte, error) {
	if path == "" || strings.Contains(path, "..") {
		return nil, fmt.Errorf("storage: fetch %q: %w", path, apperr.ErrInvalidPath)
	}
	target := h.base.JoinPath(strings.Split(path, "/")...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", path, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("storage: fetch %s: %w", path, apperr.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("storage: fetch %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", path, err)
	}
	return data, nil
}
