package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/middleware"
)

// ProfileHandler serves the per-user profile endpoints.  Reads are public
// with an optional identity; the owner sees the full record, everyone else
// the public subset.  Writes require the owning identity.
type ProfileHandler struct {
	Users UserStore
}

func NewProfileHandler(u UserStore) *ProfileHandler { return &ProfileHandler{Users: u} }

type profileUpdateReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	DOB       *string `json:"dob"`
	Address   *string `json:"address"`
}

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Get returns a profile by email.  dob and address are only included when
// the authenticated caller owns the profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	resp := echo.Map{
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
	}
	if uid, ok := middleware.CurrentUserID(c); ok && uid == u.ID {
		resp["dob"] = formatDOB(u.DOB)
		resp["address"] = u.Address
	}
	return c.JSON(http.StatusOK, resp)
}

// Update overwrites all four optional profile fields of the caller's own
// profile and echoes the updated record.
func (h *ProfileHandler) Update(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authorization header ('Bearer token') not found")
	}
	if uid != u.ID {
		return fail(c, http.StatusForbidden, "Forbidden")
	}

	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest,
			"Request body invalid: firstName, lastName and address must be strings only.")
	}
	if req.FirstName == nil || req.LastName == nil || req.DOB == nil || req.Address == nil {
		return fail(c, http.StatusBadRequest,
			"Request body incomplete: firstName, lastName, dob and address are required.")
	}
	dob, err := parseDOB(*req.DOB)
	if err != nil {
		return fail(c, http.StatusBadRequest,
			"Invalid input: dob must be a real date in format YYYY-MM-DD.")
	}

	if err := h.Users.UpdateProfile(ctx, u.Email, *req.FirstName, *req.LastName, dob, *req.Address); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	updated, err := h.Users.GetByEmail(ctx, u.Email)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email":     updated.Email,
		"firstName": updated.FirstName,
		"lastName":  updated.LastName,
		"dob":       formatDOB(updated.DOB),
		"address":   updated.Address,
	})
}

// parseDOB accepts only real dates written as YYYY-MM-DD.  time.Parse
// normalizes overflow (2023-02-30 becomes March), so the round trip must
// reproduce the input exactly.
func parseDOB(s string) (time.Time, error) {
	if !dobPattern.MatchString(s) {
		return time.Time{}, errInvalidDOB
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil || t.Format("2006-01-02") != s {
		return time.Time{}, errInvalidDOB
	}
	return t, nil
}

var errInvalidDOB = errors.New("invalid dob")

func formatDOB(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
