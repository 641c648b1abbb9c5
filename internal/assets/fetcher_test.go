package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	f := NewFetcherFS(fs, "/assets", time.Second)

	path, err := f.Fetch(context.Background(), srv.URL, KindCover, "Portal 2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/assets", "covers", "Portal 2.png"), path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestFetchEmptyURLIsAbsent(t *testing.T) {
	f := NewFetcherFS(afero.NewMemMapFs(), "/assets", time.Second)

	path, err := f.Fetch(context.Background(), "", KindArtwork, "Portal 2")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFetchOverwritesExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new-bytes"))
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	f := NewFetcherFS(fs, "/assets", time.Second)

	stale := f.Path(KindCover, "Portal 2")
	require.NoError(t, afero.WriteFile(fs, stale, []byte("old-bytes"), 0o644))

	path, err := f.Fetch(context.Background(), srv.URL, KindCover, "Portal 2")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-bytes"), data, "existing files are overwritten unconditionally")
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	f := NewFetcherFS(fs, "/assets", time.Second)

	path, err := f.Fetch(context.Background(), srv.URL, KindCover, "Portal 2")
	assert.Error(t, err)
	assert.Empty(t, path)

	exists, _ := afero.Exists(fs, f.Path(KindCover, "Portal 2"))
	assert.False(t, exists, "no file is written on a failed download")
}

func TestFetchNetworkError(t *testing.T) {
	f := NewFetcherFS(afero.NewMemMapFs(), "/assets", time.Second)

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/cover.png", KindCover, "Portal 2")
	assert.Error(t, err)
}

func TestPathSanitizesDisplayName(t *testing.T) {
	f := NewFetcherFS(afero.NewMemMapFs(), "/assets", time.Second)

	assert.Equal(t,
		filepath.Join("/assets", "artworks", "evil.png"),
		f.Path(KindArtwork, "../../evil"))
}

func TestRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := NewFetcherFS(fs, "/assets", time.Second)

	path := f.Path(KindCover, "Portal 2")
	require.NoError(t, afero.WriteFile(fs, path, []byte("bytes"), 0o644))

	data, err := f.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}
