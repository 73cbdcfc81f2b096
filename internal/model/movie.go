package model

// RatingSource identifies an external authority that provides at most one
// numeric rating per movie.  The set of sources is closed; response
// assembly iterates RatingSources in order so every movie's ratings list
// has the same shape regardless of which rows exist.
type RatingSource string

const (
	SourceIMDB           RatingSource = "Internet Movie Database"
	SourceRottenTomatoes RatingSource = "Rotten Tomatoes"
	SourceMetacritic     RatingSource = "Metacritic"
)

// RatingSources is the canonical iteration order for assembling ratings.
var RatingSources = []RatingSource{SourceIMDB, SourceRottenTomatoes, SourceMetacritic}

// Rating pairs a source with its normalized value.  Value is nil when the
// movie has no row for that source; the entry itself is never omitted.
type Rating struct {
	Source string   `json:"source"`
	Value  *float64 `json:"value"`
}

// MovieSummary is one row of a search result page.
type MovieSummary struct {
	Title                string   `json:"title"`
	Year                 int      `json:"year"`
	ImdbID               string   `json:"imdbID"`
	Classification       *string  `json:"classification"`
	ImdbRating           *float64 `json:"imdbRating"`
	RottenTomatoesRating *float64 `json:"rottenTomatoesRating"`
	MetacriticRating     *float64 `json:"metacriticRating"`
}

// MovieDetail is the full record returned by the movie data endpoint.
// Genres and Country are split from the comma-delimited columns; Ratings
// always contains one entry per known source.
type MovieDetail struct {
	Title      string      `json:"title"`
	Year       int         `json:"year"`
	Runtime    *int        `json:"runtime"`
	Genres     []string    `json:"genres"`
	Country    []string    `json:"country"`
	Boxoffice  *int64      `json:"boxoffice"`
	Poster     *string     `json:"poster"`
	Plot       *string     `json:"plot"`
	Ratings    []Rating    `json:"ratings"`
	Principals []Principal `json:"principals"`
}

// Principal is a cast/crew credit attached to a movie, joined to the
// person's name.  Characters is parsed from the JSON column; a missing or
// malformed value becomes an empty list.
type Principal struct {
	ID         string   `json:"id"`
	Name       *string  `json:"name"`
	Category   string   `json:"category"`
	Characters []string `json:"characters"`
}
