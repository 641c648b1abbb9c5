package resolver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gamesense/internal/assets"
	"gamesense/internal/cache"
	"gamesense/internal/igdb"
	"gamesense/internal/resolver"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full pipeline over a real SQLite cache, a fake catalog server and an
// in-memory asset store.
func TestResolveTwiceHitsCatalogOnce(t *testing.T) {
	var searches atomic.Int64
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		_, _ = w.Write([]byte(`[{"name":"Portal 2","category":0,"total_rating":91.5,"first_release_date":1303171200}]`))
	}))
	defer catalogSrv.Close()

	client, err := igdb.NewClient("id", "token", time.Second)
	require.NoError(t, err)
	client.SetEndpoint(catalogSrv.URL)

	store, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	fetcher := assets.NewFetcherFS(afero.NewMemMapFs(), "/assets", time.Second)
	r := resolver.New(client, store, fetcher)

	first, err := r.Resolve(context.Background(), "Portal 2")
	require.NoError(t, err)
	assert.Equal(t, "Portal 2", first.Name)
	assert.Equal(t, "2011-04-19", first.ReleaseDate)

	second, err := r.Resolve(context.Background(), "Portal 2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int64(1), searches.Load(), "second resolve must be a cache hit")
}

func TestResolveNotFoundIsNotCached(t *testing.T) {
	var searches atomic.Int64
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer catalogSrv.Close()

	client, err := igdb.NewClient("id", "token", time.Second)
	require.NoError(t, err)
	client.SetEndpoint(catalogSrv.URL)

	store, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	fetcher := assets.NewFetcherFS(afero.NewMemMapFs(), "/assets", time.Second)
	r := resolver.New(client, store, fetcher)

	_, err = r.Resolve(context.Background(), "Nothing")
	assert.ErrorIs(t, err, resolver.ErrNoMatch)

	_, err = r.Resolve(context.Background(), "Nothing")
	assert.ErrorIs(t, err, resolver.ErrNoMatch)

	assert.Equal(t, int64(2), searches.Load(), "every not-found lookup re-queries the catalog")
}
