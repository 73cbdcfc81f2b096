package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-api/internal/model"
)

// MoviePageSize is the fixed number of rows per search page.
const MoviePageSize = 100

// MovieSearchQuery defines filters & pagination for searching movies.
// Title and Year are already validated by the handler; Page is 1-based.
type MovieSearchQuery struct {
	Title string
	Year  string
	Page  int
}

type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// ratingJoins left-joins at most one ratings row per source onto the movie,
// keyed on (tconst, source).  Independent joins keep the row count equal to
// the movie count even when a movie has several rating sources.
const ratingJoins = `
		LEFT JOIN ratings r_imdb ON r_imdb.tconst = b.tconst AND r_imdb.source = ?
		LEFT JOIN ratings r_rt   ON r_rt.tconst   = b.tconst AND r_rt.source   = ?
		LEFT JOIN ratings r_mc   ON r_mc.tconst   = b.tconst AND r_mc.source   = ?`

func ratingJoinArgs() []any {
	return []any{
		string(model.SourceIMDB),
		string(model.SourceRottenTomatoes),
		string(model.SourceMetacritic),
	}
}

// Search runs the filtered count and data queries against `basics`.  Both
// queries are built from the same WHERE conjunction so the reported total
// always matches the paged rows.  Results are ordered by tconst so pages
// stay stable across requests.
func (r *MovieRepo) Search(ctx context.Context, q MovieSearchQuery) ([]model.MovieSummary, int, error) {
	where := []string{}
	args := []any{}

	if q.Title != "" {
		where = append(where, "LOWER(b.primaryTitle) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Year != "" {
		where = append(where, "b.year = ?")
		args = append(args, q.Year)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM basics b WHERE " + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	lastPage := (total + MoviePageSize - 1) / MoviePageSize
	out := make([]model.MovieSummary, 0, MoviePageSize)
	if total == 0 || q.Page > lastPage {
		// Out-of-range pages are not an error; the caller still gets the
		// true total for its metadata.
		return out, total, nil
	}

	limit := MoviePageSize
	offset := (q.Page - 1) * MoviePageSize

	dataSQL := `SELECT
			b.primaryTitle,
			b.year,
			b.tconst,
			b.rated,
			r_imdb.value,
			r_rt.value,
			r_mc.value
		FROM basics b` + ratingJoins + `
		WHERE ` + cond + `
		ORDER BY b.tconst ASC
		LIMIT ? OFFSET ?`

	argsData := append(ratingJoinArgs(), args...)
	argsData = append(argsData, limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m     model.MovieSummary
			year  sql.NullInt64
			rated sql.NullString
			imdb  sql.NullString
			rt    sql.NullString
			mc    sql.NullString
		)
		if err := rows.Scan(&m.Title, &year, &m.ImdbID, &rated, &imdb, &rt, &mc); err != nil {
			return nil, 0, err
		}
		m.Year = int(year.Int64)
		if rated.Valid {
			m.Classification = &rated.String
		}
		m.ImdbRating = model.ParseRating(nullStr(imdb))
		m.RottenTomatoesRating = model.ParseRating(nullStr(rt))
		m.MetacriticRating = model.ParseRating(nullStr(mc))
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID loads one movie with its fixed-order ratings list and its
// principals.  sql.ErrNoRows is returned when the id is unknown.
func (r *MovieRepo) GetByID(ctx context.Context, imdbID string) (model.MovieDetail, error) {
	detailSQL := `SELECT
			b.primaryTitle,
			b.year,
			b.runtimeMinutes,
			b.genres,
			b.country,
			b.boxoffice,
			b.poster,
			b.plot,
			r_imdb.value,
			r_rt.value,
			r_mc.value
		FROM basics b` + ratingJoins + `
		WHERE b.tconst = ?
		LIMIT 1`

	args := append(ratingJoinArgs(), imdbID)

	var (
		d       model.MovieDetail
		year    sql.NullInt64
		runtime sql.NullInt64
		genres  sql.NullString
		country sql.NullString
		boxoff  sql.NullInt64
		poster  sql.NullString
		plot    sql.NullString
		imdb    sql.NullString
		rt      sql.NullString
		mc      sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, detailSQL, args...).Scan(
		&d.Title, &year, &runtime, &genres, &country, &boxoff, &poster, &plot,
		&imdb, &rt, &mc)
	if err != nil {
		return model.MovieDetail{}, err
	}

	d.Year = int(year.Int64)
	if runtime.Valid {
		n := int(runtime.Int64)
		d.Runtime = &n
	}
	if boxoff.Valid {
		d.Boxoffice = &boxoff.Int64
	}
	if poster.Valid {
		d.Poster = &poster.String
	}
	if plot.Valid {
		d.Plot = &plot.String
	}
	d.Genres = model.SplitList(nullStr(genres))
	d.Country = model.SplitList(nullStr(country))
	d.Ratings = model.BuildRatings(map[model.RatingSource]*string{
		model.SourceIMDB:           nullStr(imdb),
		model.SourceRottenTomatoes: nullStr(rt),
		model.SourceMetacritic:     nullStr(mc),
	})

	d.Principals, err = r.principals(ctx, imdbID)
	if err != nil {
		return model.MovieDetail{}, err
	}
	return d, nil
}

// principals lists the cast/crew rows of a movie in query order.
func (r *MovieRepo) principals(ctx context.Context, imdbID string) ([]model.Principal, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT
			p.nconst,
			n.primaryName,
			p.category,
			p.characters
		FROM principals p
		LEFT JOIN names n ON n.nconst = p.nconst
		WHERE p.tconst = ?`, imdbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Principal{}
	for rows.Next() {
		var (
			p     model.Principal
			name  sql.NullString
			chars sql.NullString
		)
		if err := rows.Scan(&p.ID, &name, &p.Category, &chars); err != nil {
			return nil, err
		}
		if name.Valid {
			p.Name = &name.String
		}
		p.Characters = model.ParseCharacters(nullStr(chars))
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nullStr converts a NullString into the pointer form the shaping helpers
// take.
func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
