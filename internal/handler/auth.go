package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/auth"
	"github.com/iliyamo/movie-api/internal/config"
	"github.com/iliyamo/movie-api/internal/queue"
	"github.com/iliyamo/movie-api/internal/repository"
	queue_publisher "github.com/iliyamo/movie-api/internal/service"
	"github.com/iliyamo/movie-api/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens *auth.TokenService
}

func NewAuthHandler(cfg config.Config, u UserStore, t *auth.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email                   string `json:"email"`
	Password                string `json:"password"`
	BearerExpiresInSeconds  *int   `json:"bearerExpiresInSeconds"`
	RefreshExpiresInSeconds *int   `json:"refreshExpiresInSeconds"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPart struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}
type tokenPairResp struct {
	BearerToken  tokenPart `json:"bearerToken"`
	RefreshToken tokenPart `json:"refreshToken"`
}

func pairResponse(p auth.TokenPair) tokenPairResp {
	return tokenPairResp{
		BearerToken:  tokenPart{Token: p.AccessToken, TokenType: "Bearer", ExpiresIn: p.AccessExpiresIn},
		RefreshToken: tokenPart{Token: p.RefreshToken, TokenType: "Refresh", ExpiresIn: p.RefreshExpiresIn},
	}
}

// Register creates an account.  The password is hashed by the store; a
// user.registered event is published fire-and-forget once the row exists.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Request body incomplete, both email and password are required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Request body incomplete, both email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "User already exists")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	// Downstream consumers (welcome mail, analytics) pick this up; a broker
	// outage must not fail the registration itself.
	go func() {
		_ = queue_publisher.PublishUserRegistered(context.Background(), queue.UserRegisteredEvent{
			UserID: uid,
			Email:  req.Email,
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created"})
}

// Login verifies credentials and issues a token pair.  Optional TTL
// overrides are validated against the policy bounds before any store
// access.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Request body incomplete, both email and password are required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Request body incomplete, both email and password are required")
	}
	if req.BearerExpiresInSeconds != nil &&
		(*req.BearerExpiresInSeconds < auth.MinBearerTTLSec || *req.BearerExpiresInSeconds > auth.MaxBearerTTLSec) {
		return fail(c, http.StatusBadRequest, "Bearer token expiry must be between 60 and 3600 seconds")
	}
	if req.RefreshExpiresInSeconds != nil &&
		(*req.RefreshExpiresInSeconds < auth.MinRefreshTTLSec || *req.RefreshExpiresInSeconds > auth.MaxRefreshTTLSec) {
		return fail(c, http.StatusBadRequest, "Refresh token expiry must be between 1 hour and 30 days")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "Incorrect email or password")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Incorrect email or password")
	}

	pair, err := h.Tokens.IssueTokenPair(ctx, u.ID, auth.PairOptions{
		BearerTTLSec:  req.BearerExpiresInSeconds,
		RefreshTTLSec: req.RefreshExpiresInSeconds,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, pairResponse(pair))
}

// Refresh rotates a refresh token: the presented token is consumed and a
// fresh pair issued.  Every failure mode maps to the same 401 body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "Request body incomplete, refresh token required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_, pair, err := h.Tokens.Rotate(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return fail(c, http.StatusUnauthorized, "Invalid JWT token")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, pairResponse(pair))
}

// Logout revokes a refresh token.  Revoking an unknown or already-revoked
// token reports success; the row simply is not there anymore.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "Request body incomplete, refresh token required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"error": false, "message": "Token successfully invalidated"})
}
