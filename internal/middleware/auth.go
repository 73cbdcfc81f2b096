package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/auth"
	"github.com/iliyamo/movie-api/internal/model"
)

// UserIDKey is the context key under which the verified user id is stored.
const UserIDKey = "user_id"

// UserStore is the slice of the user repository the middleware needs to
// confirm that a token's subject still exists.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RequireAuth verifies a Bearer access token and stores the subject user id
// in the request context.  Missing, malformed, expired and invalid
// credentials each get their own fixed 401 message; expired is kept
// distinct so clients know to refresh rather than re-login.  A valid token
// whose subject was deleted is treated as invalid.
func RequireAuth(ts *auth.TokenService, users UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return unauthorized(c, "Authorization header ('Bearer token') not found")
			}
			return verifyBearer(c, ts, users, header, next)
		}
	}
}

// OptionalAuth is identical to RequireAuth except that a request without an
// Authorization header passes through with no identity attached.  A header
// that is present but malformed or invalid still fails: the caller signaled
// intent to authenticate.
func OptionalAuth(ts *auth.TokenService, users UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}
			return verifyBearer(c, ts, users, header, next)
		}
	}
}

func verifyBearer(c echo.Context, ts *auth.TokenService, users UserStore, header string, next echo.HandlerFunc) error {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return unauthorized(c, "Authorization header is malformed")
	}

	userID, err := ts.VerifyAccess(raw)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return unauthorized(c, "JWT token has expired")
		}
		return unauthorized(c, "Invalid JWT token")
	}

	// The token may outlive its account; a deleted user's tokens are
	// rejected the same way as forged ones.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return unauthorized(c, "Invalid JWT token")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "Internal server error"})
	}

	c.Set(UserIDKey, userID)
	return next(c)
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": msg})
}

// CurrentUserID returns the verified user id stored by the auth middleware,
// and whether one is present.
func CurrentUserID(c echo.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey).(uint64)
	return v, ok
}
