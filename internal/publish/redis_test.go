package publish

import (
	"context"
	"encoding/json"
	"testing"

	"gamesense/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLayout(t *testing.T) {
	p := NewRedisPublisher("localhost:6379", "gamesense")
	defer func() { _ = p.Close() }()

	assert.Equal(t, "gamesense/game/state", p.key("state"))
	assert.Equal(t, "gamesense/game/attrs", p.key("attrs"))
	assert.Equal(t, "gamesense/game/cover", p.key("cover"))
}

func TestAttrsPayloadShape(t *testing.T) {
	rec := &resolver.Record{
		Name:        "Portal 2",
		Summary:     "Sequel to Portal",
		ReleaseDate: "2011-04-19",
		Genres:      []string{"Puzzle", "Shooter"},
		Platforms:   []string{"PC", "Linux"},
		Developers:  []string{"Valve"},
		Rating:      91.5,
		URL:         "https://www.igdb.com/games/portal-2",
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
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "Puzzle, Shooter", decoded["genres"])
	assert.Equal(t, "PC, Linux", decoded["platforms"])
	assert.Equal(t, "Valve", decoded["developers"])
	assert.Equal(t, 91.5, decoded["total_rating"])
}

func TestPublishIdleUnreachableBroker(t *testing.T) {
	p := NewRedisPublisher("127.0.0.1:1", "gamesense")
	defer func() { _ = p.Close() }()

	err := p.PublishIdle(context.Background())
	assert.Error(t, err, "an unreachable broker surfaces as an error to the agent")
}
