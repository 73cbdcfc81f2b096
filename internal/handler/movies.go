package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/model"
	"github.com/iliyamo/movie-api/internal/repository"
)

// MovieStore is the catalog surface the movie endpoints depend on.
type MovieStore interface {
	Search(ctx context.Context, q repository.MovieSearchQuery) ([]model.MovieSummary, int, error)
	GetByID(ctx context.Context, imdbID string) (model.MovieDetail, error)
}

type MovieHandler struct {
	Movies MovieStore
}

func NewMovieHandler(m MovieStore) *MovieHandler { return &MovieHandler{Movies: m} }

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Search returns a fixed-size page of the filtered movie list plus
// pagination metadata.  Query parameters are validated before the store is
// touched; anything other than title/year/page is rejected outright.
func (h *MovieHandler) Search(c echo.Context) error {
	for key := range c.QueryParams() {
		if key != "title" && key != "year" && key != "page" {
			return fail(c, http.StatusBadRequest, "Query parameters are not permitted.")
		}
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fail(c, http.StatusBadRequest, "Invalid page format. page must be a number.")
		}
		page = n
	}
	year := c.QueryParam("year")
	if year != "" && !yearPattern.MatchString(year) {
		return fail(c, http.StatusBadRequest, "Invalid year format. Format must be yyyy.")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, total, err := h.Movies.Search(ctx, repository.MovieSearchQuery{
		Title: c.QueryParam("title"),
		Year:  year,
		Page:  page,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":       rows,
		"pagination": model.Paginate(total, page, repository.MoviePageSize, len(rows)),
	})
}

// Data returns the full record for one movie: detail fields, the
// fixed-order ratings list and the principals.
func (h *MovieHandler) Data(c echo.Context) error {
	if len(c.QueryParams()) > 0 {
		return fail(c, http.StatusBadRequest, "Query parameters are not permitted.")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Movies.GetByID(ctx, c.Param("imdbID"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "No record exists of a movie with this ID")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, detail)
}
