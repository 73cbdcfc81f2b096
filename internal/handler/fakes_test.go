package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-api/internal/auth"
	"github.com/iliyamo/movie-api/internal/config"
	"github.com/iliyamo/movie-api/internal/model"
	"github.com/iliyamo/movie-api/internal/repository"
	"github.com/iliyamo/movie-api/internal/utils"
)

const testSecret = "handler-test-secret-32-characters!!!"

// testCost keeps bcrypt cheap in tests.
const testCost = 4

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]*model.User // keyed by email
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*model.User{}}
}

func (m *memUserStore) Create(_ context.Context, email, password string, cost int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := m.users[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.nextID++
	m.users[email] = &model.User{ID: m.nextID, Email: email, PasswordHash: hash}
	return m.nextID, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return *u, nil
}

func (m *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return *u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUserStore) UpdateProfile(_ context.Context, email, firstName, lastName string, dob time.Time, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return sql.ErrNoRows
	}
	u.FirstName = &firstName
	u.LastName = &lastName
	u.DOB = &dob
	u.Address = &address
	return nil
}

// memTokenStore is an in-memory auth.TokenStore.
type memTokenStore struct {
	mu   sync.Mutex
	rows map[string]uint64
}

func newMemTokenStore() *memTokenStore { return &memTokenStore{rows: map[string]uint64{}} }

func (m *memTokenStore) Store(_ context.Context, userID uint64, token string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func newTestAuthHandler() (*AuthHandler, *memUserStore, *memTokenStore) {
	users := newMemUserStore()
	tokens := newMemTokenStore()
	ts := auth.NewTokenService(testSecret, 600, 86400, tokens)
	cfg := config.Config{Env: "test", JWTSecret: testSecret, BcryptCost: testCost,
		BearerTTLSec: 600, RefreshTTLSec: 86400}
	return NewAuthHandler(cfg, users, ts), users, tokens
}

// doJSON runs a handler against a synthetic request and decodes the
// response body.
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string,
	setup func(c echo.Context)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	require.NoError(t, h(c))
	out := map[string]any{}
	raw := bytes.TrimSpace(rec.Body.Bytes())
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return rec, out
}

// decodeBody decodes a non-object response body (e.g. a top-level array).
func decodeBody(raw []byte, v any) error {
	return json.Unmarshal(raw, v)
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, body map[string]any, status int, msg string) {
	t.Helper()
	require.Equal(t, status, rec.Code)
	require.Equal(t, true, body["error"])
	require.Equal(t, msg, body["message"])
}
