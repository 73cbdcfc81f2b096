package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/model"
)

// PersonStore is the catalog surface the people endpoints depend on.
type PersonStore interface {
	GetByID(ctx context.Context, id string) (model.Person, error)
	Credits(ctx context.Context, id string) ([]model.Credit, error)
}

type PersonHandler struct {
	People PersonStore
}

func NewPersonHandler(p PersonStore) *PersonHandler { return &PersonHandler{People: p} }

// Get returns one person's basic record.
func (h *PersonHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "No record exists of a person with this ID")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, p)
}

// Credits returns every credit of a person, ordered by movie year then
// title.  The person's existence is confirmed first so an unknown id is a
// 404 rather than an empty list.
func (h *PersonHandler) Credits(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.People.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Person not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	credits, err := h.People.Credits(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, credits)
}
