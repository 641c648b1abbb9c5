// Package resolver turns a raw game title into a canonical, cached record by
// querying the catalog, ranking candidates and fetching image assets.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"gamesense/internal/assets"
	"gamesense/internal/igdb"
	"gamesense/internal/logging"
	"gamesense/internal/match"
	"gamesense/internal/metrics"
	"gamesense/internal/tracing"
)

// ErrNoMatch is returned when the catalog has no acceptable candidate for a
// title. It is a normal outcome, not a failure, and is never cached.
var ErrNoMatch = errors.New("no matching game found")

// Catalog searches the remote game catalog.
type Catalog interface {
	Search(ctx context.Context, title string) ([]igdb.Game, error)
}

// Cache stores resolved records keyed by the raw searched title.
type Cache interface {
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, rec *Record) error
}

// Assets downloads and stores image files.
type Assets interface {
	Fetch(ctx context.Context, url string, kind assets.Kind, displayName string) (string, error)
}

// Resolver composes the catalog, cache and asset store into a single
// resolve operation. All collaborators are injected.
type Resolver struct {
	catalog Catalog
	cache   Cache
	assets  Assets
}

// New creates a resolver over the given collaborators.
func New(catalog Catalog, cache Cache, assetStore Assets) *Resolver {
	return &Resolver{catalog: catalog, cache: cache, assets: assetStore}
}

// Resolve looks up title, first in the cache, then against the catalog. On a
// cache hit no network or disk work happens at all. A miss queries the
// catalog, ranks the candidates, fetches cover and artwork (each tolerating
// failure), writes the cache and returns the new record. ErrNoMatch means the
// title resolved to nothing; only catalog auth and network errors propagate.
func (r *Resolver) Resolve(ctx context.Context, title string) (*Record, error) {
	ctx, span := tracing.StartResolveSpan(ctx, title)
	var retErr error
	defer func() { tracing.EndSpan(span, retErr) }()

	// Cache lookup uses the title verbatim; a read failure is a miss.
	cached, err := r.cache.Get(ctx, title)
	if err != nil {
		logging.Warn("cache read failed, querying catalog", "title", title, "error", err)
	}
	if cached != nil {
		span.SetAttributes(attribute.Bool("gamesense.cache_hit", true))
		metrics.CacheHits.Inc()
		metrics.RecordResolution("cache_hit")
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("gamesense.cache_hit", false))
	metrics.CacheMisses.Inc()

	start := time.Now()
	candidates, err := r.catalog.Search(ctx, title)
	metrics.ObserveCatalogRequest(start)
	if err != nil {
		metrics.RecordResolution("error")
		retErr = fmt.Errorf("catalog search for %q: %w", title, err)
		return nil, retErr
	}
	if len(candidates) == 0 {
		metrics.RecordResolution("not_found")
		return nil, ErrNoMatch
	}

	winner := match.Rank(title, candidates)
	if winner == nil {
		logging.Debug("no candidate cleared the score threshold",
			"title", title, "candidates", len(candidates))
		metrics.RecordResolution("not_found")
		return nil, ErrNoMatch
	}
	span.SetAttributes(attribute.String("gamesense.matched", winner.Name))

	rec := r.buildRecord(ctx, title, winner)

	// Failed negative lookups are deliberately not cached; every miss
	// re-queries the catalog.
	if err := r.cache.Put(ctx, title, rec); err != nil {
		logging.Error("cache write failed", "title", title, "error", err)
	}

	metrics.RecordResolution("resolved")
	return rec, nil
}

// buildRecord derives the canonical record for a winning candidate,
// downloading its images along the way.
func (r *Resolver) buildRecord(ctx context.Context, title string, g *igdb.Game) *Record {
	rec := &Record{
		Name:       g.Name,
		Summary:    g.Summary,
		Rating:     g.TotalRating,
		Genres:     g.GenreNames(),
		Platforms:  g.PlatformNames(),
		Developers: g.CompanyNames(),
		URL:        g.URL,
		Raw:        *g,
	}

	if g.FirstReleaseDate != 0 {
		rec.ReleaseDate = time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006-01-02")
	}

	var coverURL string
	if g.Cover != nil {
		coverURL = imageURL(g.Cover.URL, "t_cover_big")
	}
	rec.CoverPath = r.fetchAsset(ctx, coverURL, assets.KindCover, g.Name)
	rec.ArtworkPath = r.fetchAsset(ctx, artworkURL(g), assets.KindArtwork, g.Name)

	return rec
}

// fetchAsset downloads one image, degrading to absent on any failure.
func (r *Resolver) fetchAsset(ctx context.Context, url string, kind assets.Kind, name string) string {
	if url == "" {
		metrics.RecordAssetDownload(string(kind), "absent")
		return ""
	}
	path, err := r.assets.Fetch(ctx, url, kind, name)
	if err != nil {
		logging.Warn("asset download failed", "kind", kind, "url", url, "error", err)
		metrics.RecordAssetDownload(string(kind), "error")
		return ""
	}
	metrics.RecordAssetDownload(string(kind), "ok")
	return path
}

// imageURL upgrades a service-relative thumbnail URL to an https URL at the
// requested size. Absolute URLs pass through untouched.
func imageURL(raw, size string) string {
	if !strings.HasPrefix(raw, "//") {
		return raw
	}
	return "https:" + strings.Replace(raw, "t_thumb", size, 1)
}

// artworkURL picks the promotional image for a candidate: the last artwork,
// else the first screenshot, else nothing.
func artworkURL(g *igdb.Game) string {
	if len(g.Artworks) > 0 {
		return imageURL(g.Artworks[len(g.Artworks)-1].URL, "t_720p")
	}
	if len(g.Screenshots) > 0 {
		return imageURL(g.Screenshots[0].URL, "t_720p")
	}
	return ""
}
