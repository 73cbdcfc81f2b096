package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/model"
)

// UserStore is the user persistence surface the handlers depend on.  The
// concrete implementation is repository.UserRepo; tests substitute an
// in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, email, firstName, lastName string, dob time.Time, address string) error
}

// fail writes the API-wide error body shape.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": true, "message": msg})
}

// reqCtx bounds a store call so a stalled database surfaces as an error
// instead of a hung request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
