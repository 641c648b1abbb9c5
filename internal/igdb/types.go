package igdb

// Game category values as defined by the IGDB API. Only the ones that
// influence match scoring are named; everything else is neutral.
const (
	CategoryMainGame            = 0
	CategoryDLC                 = 1
	CategoryExpansion           = 2
	CategoryStandaloneExpansion = 4
)

// Image is a single image reference as returned by the API. URLs are
// service-relative ("//images.igdb.com/...") and sized t_thumb.
type Image struct {
	URL string `json:"url"`
}

// Named carries just a name, used for genres and platforms.
type Named struct {
	Name string `json:"name"`
}

// InvolvedCompany links a game to a developer or publisher.
type InvolvedCompany struct {
	Company Named `json:"company"`
}

// Game is one untouched search candidate as returned by the catalog.
// Fields mirror the query's field list; absent fields decode to zero values.
type Game struct {
	Name              string            `json:"name"`
	Summary           string            `json:"summary"`
	TotalRating       float64           `json:"total_rating"`
	FirstReleaseDate  int64             `json:"first_release_date"`
	Category          int               `json:"category"`
	Cover             *Image            `json:"cover"`
	Artworks          []Image           `json:"artworks"`
	Screenshots       []Image           `json:"screenshots"`
	Genres            []Named           `json:"genres"`
	Platforms         []Named           `json:"platforms"`
	InvolvedCompanies []InvolvedCompany `json:"involved_companies"`
	URL               string            `json:"url"`
}

// GenreNames returns the genre names in catalog order.
func (g Game) GenreNames() []string {
	return names(g.Genres)
}

// PlatformNames returns the platform names in catalog order.
func (g Game) PlatformNames() []string {
	return names(g.Platforms)
}

// CompanyNames returns developer/publisher names in catalog order.
func (g Game) CompanyNames() []string {
	out := make([]string, 0, len(g.InvolvedCompanies))
	for _, ic := range g.InvolvedCompanies {
		if ic.Company.Name != "" {
			out = append(out, ic.Company.Name)
		}
	}
	return out
}

func names(in []Named) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		out = append(out, n.Name)
	}
	return out
}
