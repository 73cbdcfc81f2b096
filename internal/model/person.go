package model

// Person is a row from the `names` table.  Birth and death years are
// nullable in the source data.
type Person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birthYear"`
	DeathYear *int   `json:"deathYear"`
}

// Credit links a person to one movie they worked on, together with the
// movie's Internet Movie Database rating when one exists.
type Credit struct {
	MovieName  string   `json:"movieName"`
	MovieID    string   `json:"movieId"`
	Year       int      `json:"year"`
	Category   string   `json:"category"`
	Characters []string `json:"characters"`
	ImdbRating *float64 `json:"imdbRating"`
}
