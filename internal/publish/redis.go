// Package publish broadcasts presence updates to downstream consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"gamesense/internal/logging"
	"gamesense/internal/resolver"
)

// attrs is the flattened attribute payload consumers receive, mirroring the
// record with display-joined lists.
type attrs struct {
	Name        string  `json:"name"`
	Summary     string  `json:"summary"`
	ReleaseDate string  `json:"release_date"`
	Genres      string  `json:"genres"`
	Developers  string  `json:"developers"`
	Platforms   string  `json:"platforms"`
	TotalRating float64 `json:"total_rating"`
	URL         string  `json:"url"`
}

// RedisPublisher pushes presence state over Redis pub/sub. Each payload is
// also SET under the same key so late joiners can read the last value.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	fs     afero.Fs
}

// NewRedisPublisher connects to addr and publishes under prefix.
func NewRedisPublisher(addr, prefix string) *RedisPublisher {
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		fs:     afero.NewOsFs(),
	}
}

// Ping verifies the broker connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func (p *RedisPublisher) key(parts ...string) string {
	key := p.prefix + "/game"
	for _, part := range parts {
		key += "/" + part
	}
	return key
}

// publish sends payload on a channel and retains it under the same key.
func (p *RedisPublisher) publish(ctx context.Context, key string, payload []byte) error {
	if err := p.client.Publish(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", key, err)
	}
	if err := p.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("retaining %s: %w", key, err)
	}
	return nil
}

// PublishPlaying broadcasts the record's attributes and image bytes.
func (p *RedisPublisher) PublishPlaying(ctx context.Context, rec *resolver.Record) error {
	if err := p.publish(ctx, p.key("state"), []byte("playing")); err != nil {
		return err
	}

	payload, err := json.Marshal(attrs{
		Name:        rec.Name,
		Summary:     rec.Summary,
		ReleaseDate: rec.ReleaseDate,
		Genres:      rec.GenresDisplay(),
		Developers:  rec.DevelopersDisplay(),
		Platforms:   rec.PlatformsDisplay(),
		TotalRating: rec.Rating,
		URL:         rec.URL,
	})
	if err != nil {
		return fmt.Errorf("encoding attrs: %w", err)
	}
	if err := p.publish(ctx, p.key("attrs"), payload); err != nil {
		return err
	}

	p.publishImage(ctx, "cover", rec.CoverPath)
	p.publishImage(ctx, "artwork", rec.ArtworkPath)
	return nil
}

// publishImage ships the cached image bytes when the file exists. A missing
// or unreadable image is not an error; the attrs payload already went out.
func (p *RedisPublisher) publishImage(ctx context.Context, kind, path string) {
	if path == "" {
		return
	}
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		logging.Warn("skipping image publish", "kind", kind, "path", path, "error", err)
		return
	}
	if err := p.publish(ctx, p.key(kind), data); err != nil {
		logging.Warn("image publish failed", "kind", kind, "error", err)
	}
}

// PublishIdle broadcasts that no game is running.
func (p *RedisPublisher) PublishIdle(ctx context.Context) error {
	return p.publish(ctx, p.key("state"), []byte("idle"))
}
