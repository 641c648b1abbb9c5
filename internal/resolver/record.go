package resolver

import (
	"strings"

	"gamesense/internal/igdb"
)

// Record is the canonical, enriched representation of a resolved game. It is
// what gets cached and handed to publishers. Records are never mutated after
// creation; a re-resolution produces a replacement.
type Record struct {
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	Rating      float64   `json:"total_rating"`
	ReleaseDate string    `json:"release_date,omitempty"` // YYYY-MM-DD, empty when unknown
	Genres      []string  `json:"genres"`
	Platforms   []string  `json:"platforms"`
	Developers  []string  `json:"developers"`
	URL         string    `json:"url"`
	CoverPath   string    `json:"cover,omitempty"`   // absolute path to cached cover image
	ArtworkPath string    `json:"artwork,omitempty"` // absolute path to cached artwork image
	Raw         igdb.Game `json:"_raw"`              // untouched winning candidate
}

// GenresDisplay returns the genre list as a comma-joined display string.
func (r *Record) GenresDisplay() string {
	return strings.Join(r.Genres, ", ")
}

// PlatformsDisplay returns the platform list as a comma-joined display string.
func (r *Record) PlatformsDisplay() string {
	return strings.Join(r.Platforms, ", ")
}

// DevelopersDisplay returns the developer list as a comma-joined display string.
func (r *Record) DevelopersDisplay() string {
	return strings.Join(r.Developers, ", ")
}
