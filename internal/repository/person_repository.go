package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-api/internal/model"
)

type PersonRepo struct{ DB *sql.DB }

func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{DB: db} }

// GetByID fetches one person from `names`.  sql.ErrNoRows when unknown.
func (r *PersonRepo) GetByID(ctx context.Context, id string) (model.Person, error) {
	var (
		p     model.Person
		birth sql.NullInt64
		death sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT primaryName, birthYear, deathYear FROM names WHERE nconst=? LIMIT 1",
		id).Scan(&p.Name, &birth, &death)
	if err != nil {
		return model.Person{}, err
	}
	if birth.Valid {
		n := int(birth.Int64)
		p.BirthYear = &n
	}
	if death.Valid {
		n := int(death.Int64)
		p.DeathYear = &n
	}
	return p, nil
}

// Credits returns every principal row of a person joined to its movie and
// the movie's Internet Movie Database rating.  Ordering is year ascending,
// then title with a leading "The " ignored for comparison only, then tconst
// so repeated calls list identical data identically.
func (r *PersonRepo) Credits(ctx context.Context, id string) ([]model.Credit, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT
			b.primaryTitle,
			b.tconst,
			b.year,
			p.category,
			p.characters,
			r.value
		FROM principals p
		INNER JOIN basics b ON b.tconst = p.tconst
		LEFT JOIN ratings r ON r.tconst = b.tconst AND r.source = ?
		WHERE p.nconst = ?
		ORDER BY b.year ASC,
			CASE WHEN b.primaryTitle LIKE 'The %' THEN SUBSTRING(b.primaryTitle, 5) ELSE b.primaryTitle END ASC,
			b.tconst ASC`,
		string(model.SourceIMDB), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Credit{}
	for rows.Next() {
		var (
			c      model.Credit
			year   sql.NullInt64
			chars  sql.NullString
			rating sql.NullString
		)
		if err := rows.Scan(&c.MovieName, &c.MovieID, &year, &c.Category, &chars, &rating); err != nil {
			return nil, err
		}
		c.Year = int(year.Int64)
		c.Characters = model.ParseCharacters(nullStr(chars))
		c.ImdbRating = model.ParseRating(nullStr(rating))
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
