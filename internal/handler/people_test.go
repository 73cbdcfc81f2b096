package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-api/internal/model"
)

type memPersonStore struct {
	people  map[string]model.Person
	credits map[string][]model.Credit
}

func (m *memPersonStore) GetByID(_ context.Context, id string) (model.Person, error) {
	p, ok := m.people[id]
	if !ok {
		return model.Person{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *memPersonStore) Credits(_ context.Context, id string) ([]model.Credit, error) {
	return m.credits[id], nil
}

func withPersonID(id string) func(c echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
}

func TestPersonGet(t *testing.T) {
	birth, death := 1940, 2010
	h := NewPersonHandler(&memPersonStore{people: map[string]model.Person{
		"nm0000001": {Name: "Pat Example", BirthYear: &birth, DeathYear: &death},
	}})

	t.Run("returns the record", func(t *testing.T) {
		rec, body := doJSON(t, h.Get, http.MethodGet, "/people/nm0000001", "", withPersonID("nm0000001"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Pat Example", body["name"])
		assert.Equal(t, float64(1940), body["birthYear"])
		assert.Equal(t, float64(2010), body["deathYear"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec, body := doJSON(t, h.Get, http.MethodGet, "/people/nm9999999", "", withPersonID("nm9999999"))
		requireError(t, rec, body, http.StatusNotFound, "No record exists of a person with this ID")
	})
}

func TestPersonCredits(t *testing.T) {
	rating := 8.1
	store := &memPersonStore{
		people: map[string]model.Person{"nm0000001": {Name: "Pat Example"}},
		credits: map[string][]model.Credit{
			"nm0000001": {
				{MovieName: "Early Work", MovieID: "tt0000010", Year: 1995,
					Category: "actor", Characters: []string{"Lead"}, ImdbRating: &rating},
				{MovieName: "Later Work", MovieID: "tt0000020", Year: 2003,
					Category: "director", Characters: []string{}},
			},
		},
	}
	h := NewPersonHandler(store)

	t.Run("lists credits in store order", func(t *testing.T) {
		rec, _ := doJSON(t, h.Credits, http.MethodGet, "/people/nm0000001/credits", "", withPersonID("nm0000001"))
		require.Equal(t, http.StatusOK, rec.Code)

		// The body is a JSON array, so decode it directly.
		var credits []map[string]any
		require.NoError(t, decodeBody(rec.Body.Bytes(), &credits))
		require.Len(t, credits, 2)
		assert.Equal(t, "Early Work", credits[0]["movieName"])
		assert.Equal(t, float64(8.1), credits[0]["imdbRating"])
		assert.Equal(t, "Later Work", credits[1]["movieName"])
		assert.Nil(t, credits[1]["imdbRating"])
	})

	t.Run("unknown person is a 404 rather than an empty list", func(t *testing.T) {
		rec, body := doJSON(t, h.Credits, http.MethodGet, "/people/nm9999999/credits", "", withPersonID("nm9999999"))
		requireError(t, rec, body, http.StatusNotFound, "Person not found")
	})
}
