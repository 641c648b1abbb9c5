// Package assets downloads and stores game images (covers and artworks)
// under a configured data root.
package assets

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Kind selects the storage subdirectory for an image.
type Kind string

const (
	KindCover   Kind = "cover"
	KindArtwork Kind = "artwork"
)

// Fetcher downloads images over HTTP and writes them beneath its root
// directory. The filesystem is abstracted so tests can run in memory.
type Fetcher struct {
	fs   afero.Fs
	root string
	http *http.Client
}

// NewFetcher creates a fetcher writing under root on the real filesystem.
func NewFetcher(root string, timeout time.Duration) *Fetcher {
	return NewFetcherFS(afero.NewOsFs(), root, timeout)
}

// NewFetcherFS creates a fetcher on an explicit filesystem.
func NewFetcherFS(fs afero.Fs, root string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		fs:   fs,
		root: root,
		http: &http.Client{Timeout: timeout},
	}
}

// Path returns the storage path an image of the given kind and display name
// ends up at. Images are always stored with a .png extension regardless of
// the source encoding.
func (f *Fetcher) Path(kind Kind, displayName string) string {
	// Titles occasionally carry separators; keep them out of the tree.
	name := filepath.Base(displayName)
	return filepath.Join(f.root, string(kind)+"s", name+".png")
}

// Fetch downloads the image at url and saves it for the given kind and
// display name, unconditionally overwriting any previous file. It returns the
// absolute path of the stored file, or "" with no error when url is empty.
func (f *Fetcher) Fetch(ctx context.Context, url string, kind Kind, displayName string) (string, error) {
	if url == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building image request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	path := f.Path(kind, displayName)
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating asset directory: %w", err)
	}

	if err := afero.WriteReader(f.fs, path, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Read returns the stored bytes for a previously fetched image, used by
// publishers that ship image payloads instead of paths.
func (f *Fetcher) Read(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}
