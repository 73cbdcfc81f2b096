package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-api/internal/auth"
	"github.com/iliyamo/movie-api/internal/model"
)

const testSecret = "middleware-test-secret-32-chars!!!!!"

type memTokenStore struct {
	mu   sync.Mutex
	rows map[string]uint64
}

func (m *memTokenStore) Store(_ context.Context, userID uint64, token string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]uint64{}
	}
	m.rows[token] = userID
	return nil
}

func (m *memTokenStore) Delete(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[token]; !ok {
		return false, nil
	}
	delete(m.rows, token)
	return true, nil
}

type memUserStore struct {
	users map[uint64]model.User
}

func (m *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func okHandler(c echo.Context) error {
	uid, ok := CurrentUserID(c)
	return c.JSON(http.StatusOK, echo.Map{"uid": uid, "authenticated": ok})
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(okHandler)(c))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRequireAuth(t *testing.T) {
	ts := auth.NewTokenService(testSecret, 600, 86400, &memTokenStore{})
	users := &memUserStore{users: map[uint64]model.User{42: {ID: 42, Email: "a@x.com"}}}

	pair, err := ts.IssueTokenPair(context.Background(), 42, auth.PairOptions{})
	require.NoError(t, err)

	expiredSvc := auth.NewTokenService(testSecret, -10, 86400, &memTokenStore{})
	expired, err := expiredSvc.IssueTokenPair(context.Background(), 42, auth.PairOptions{})
	require.NoError(t, err)

	deletedUserPair, err := ts.IssueTokenPair(context.Background(), 99, auth.PairOptions{})
	require.NoError(t, err)

	mw := RequireAuth(ts, users)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized,
			wantMsg: "Authorization header ('Bearer token') not found"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized,
			wantMsg: "Authorization header is malformed"},
		{name: "bearer with empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized,
			wantMsg: "Authorization header is malformed"},
		{name: "expired token", header: "Bearer " + expired.AccessToken, wantStatus: http.StatusUnauthorized,
			wantMsg: "JWT token has expired"},
		{name: "garbage token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized,
			wantMsg: "Invalid JWT token"},
		{name: "deleted user", header: "Bearer " + deletedUserPair.AccessToken, wantStatus: http.StatusUnauthorized,
			wantMsg: "Invalid JWT token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := run(t, mw, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}

	t.Run("valid token attaches identity", func(t *testing.T) {
		rec, body := run(t, mw, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(42), body["uid"])
		assert.Equal(t, true, body["authenticated"])
	})
}

func TestOptionalAuth(t *testing.T) {
	ts := auth.NewTokenService(testSecret, 600, 86400, &memTokenStore{})
	users := &memUserStore{users: map[uint64]model.User{42: {ID: 42}}}
	mw := OptionalAuth(ts, users)

	t.Run("no header passes through without identity", func(t *testing.T) {
		rec, body := run(t, mw, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("malformed header still fails", func(t *testing.T) {
		rec, body := run(t, mw, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authorization header is malformed", body["message"])
	})

	t.Run("invalid token still fails", func(t *testing.T) {
		rec, body := run(t, mw, "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid JWT token", body["message"])
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		pair, err := ts.IssueTokenPair(context.Background(), 42, auth.PairOptions{})
		require.NoError(t, err)
		rec, body := run(t, mw, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, float64(42), body["uid"])
	})
}
