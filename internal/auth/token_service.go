// Package auth implements the token lifecycle: issuing signed access and
// refresh token pairs, rotating refresh tokens on use, revoking them, and
// verifying access tokens for the middleware.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL policy bounds in seconds.  Overrides outside these ranges are
// rejected, never clamped.
const (
	MinBearerTTLSec  = 60
	MaxBearerTTLSec  = 3600
	MinRefreshTTLSec = 3600
	MaxRefreshTTLSec = 30 * 24 * 3600
)

var (
	// ErrInvalidToken covers every rotation failure: bad signature, expired,
	// already rotated, never issued.  Collapsing these keeps the endpoint
	// from acting as a token-guessing oracle.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is only distinguished for access-token verification,
	// where the client needs to know to refresh rather than re-login.
	ErrTokenExpired = errors.New("token expired")

	ErrBearerTTLOutOfRange  = errors.New("bearer ttl out of range")
	ErrRefreshTTLOutOfRange = errors.New("refresh ttl out of range")
)

// TokenStore is the slice of the refresh-token repository the service
// needs.  Delete reports whether a row was removed; the store's uniqueness
// and delete semantics make rotation atomic without in-process locks.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, token string, exp time.Time) error
	Delete(ctx context.Context, token string) (bool, error)
}

// TokenPair is what login/refresh hand back to the client.  ExpiresIn
// values are whole seconds.
type TokenPair struct {
	AccessToken      string
	AccessExpiresIn  int
	RefreshToken     string
	RefreshExpiresIn int
}

// PairOptions carries optional per-login TTL overrides.  Nil means use the
// configured default.
type PairOptions struct {
	BearerTTLSec  *int
	RefreshTTLSec *int
}

type TokenService struct {
	secret        []byte
	bearerTTLSec  int
	refreshTTLSec int
	store         TokenStore
}

func NewTokenService(secret string, bearerTTLSec, refreshTTLSec int, store TokenStore) *TokenService {
	return &TokenService{
		secret:        []byte(secret),
		bearerTTLSec:  bearerTTLSec,
		refreshTTLSec: refreshTTLSec,
		store:         store,
	}
}

// IssueTokenPair signs an access token and a refresh token for the user and
// persists the refresh token before returning.  TTL overrides are validated
// against the policy bounds first; nothing touches the store on a
// validation failure.
func (s *TokenService) IssueTokenPair(ctx context.Context, userID uint64, opts PairOptions) (TokenPair, error) {
	bearerSec := s.bearerTTLSec
	if opts.BearerTTLSec != nil {
		if *opts.BearerTTLSec < MinBearerTTLSec || *opts.BearerTTLSec > MaxBearerTTLSec {
			return TokenPair{}, ErrBearerTTLOutOfRange
		}
		bearerSec = *opts.BearerTTLSec
	}
	refreshSec := s.refreshTTLSec
	if opts.RefreshTTLSec != nil {
		if *opts.RefreshTTLSec < MinRefreshTTLSec || *opts.RefreshTTLSec > MaxRefreshTTLSec {
			return TokenPair{}, ErrRefreshTTLOutOfRange
		}
		refreshSec = *opts.RefreshTTLSec
	}

	now := time.Now().UTC()
	sub := strconv.FormatUint(userID, 10)

	access, err := s.sign(jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(bearerSec) * time.Second)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	if err != nil {
		return TokenPair{}, err
	}

	refreshExp := now.Add(time.Duration(refreshSec) * time.Second)
	refresh, err := s.sign(jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(refreshExp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(), // jti keeps each refresh token unique
	})
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.store.Store(ctx, userID, refresh, refreshExp); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresIn:  bearerSec,
		RefreshToken:     refresh,
		RefreshExpiresIn: refreshSec,
	}, nil
}

// Rotate consumes a presented refresh token and issues a fresh pair with
// the default TTLs.  The consumed row is deleted before anything is issued;
// when two rotations race on the same token, the delete succeeds for
// exactly one of them and the other fails with ErrInvalidToken.
func (s *TokenService) Rotate(ctx context.Context, presented string) (uint64, TokenPair, error) {
	claims, err := s.parse(presented)
	if err != nil {
		return 0, TokenPair{}, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, TokenPair{}, ErrInvalidToken
	}

	deleted, err := s.store.Delete(ctx, presented)
	if err != nil {
		return 0, TokenPair{}, err
	}
	if !deleted {
		// Never issued, already rotated, or revoked.
		return 0, TokenPair{}, ErrInvalidToken
	}

	pair, err := s.IssueTokenPair(ctx, userID, PairOptions{})
	if err != nil {
		return 0, TokenPair{}, err
	}
	return userID, pair, nil
}

// Revoke deletes the presented refresh token if it is still stored.
// Revoking a token that is already gone is not an error.
func (s *TokenService) Revoke(ctx context.Context, presented string) error {
	_, err := s.store.Delete(ctx, presented)
	return err
}

// VerifyAccess checks an access token's signature and expiry and returns
// the subject user id.  Expired tokens are reported distinctly so the
// client knows to refresh instead of re-login.
func (s *TokenService) VerifyAccess(tokenString string) (uint64, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *TokenService) sign(claims jwt.RegisteredClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
