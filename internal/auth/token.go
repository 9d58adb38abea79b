package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two token lifetimes. An access token cannot be
// presented where a refresh token is required, and vice versa.
type TokenKind string

const (
	// TokenKindAccess is a short-lived token sent on every protected request.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is a long-lived token exchanged for fresh access tokens.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims extends JWT registered claims with the token kind and admin flag.
type Claims struct {
	jwt.RegisteredClaims
	Kind    TokenKind `json:"kind"`
	IsAdmin bool      `json:"adm,omitempty"`
}

// TokenService issues and verifies self-contained signed tokens.
//
// All tokens are HS256 JWTs signed with a process-wide secret loaded once at
// startup. Rotating the secret invalidates every outstanding token; there is
// no graceful rollover and no revocation list.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// lifetimes. Non-positive lifetimes fall back to 15 minutes (access) and
// 30 days (refresh).
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess creates a signed access token for a user.
func (s *TokenService) IssueAccess(user *User) (string, error) {
	return s.issue(user.ID, user.IsAdmin, TokenKindAccess, s.accessTTL)
}

// IssueRefresh creates a signed refresh token for a user.
func (s *TokenService) IssueRefresh(user *User) (string, error) {
	return s.issue(user.ID, user.IsAdmin, TokenKindRefresh, s.refreshTTL)
}

// issue signs a token of the given kind for a subject.
func (s *TokenService) issue(subject string, isAdmin bool, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Kind:    kind,
		IsAdmin: isAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify validates a token's signature and expiry and checks it is of the
// expected kind, returning the claims.
//
// Failure modes: ErrTokenInvalid for a bad signature or malformed token,
// ErrTokenExpired for a token past its expiry, ErrWrongTokenKind when an
// access token is presented where a refresh token is required (or vice versa).
func (s *TokenService) Verify(tokenString string, expectedKind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Kind != expectedKind {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrWrongTokenKind, claims.Kind, expectedKind)
	}

	return claims, nil
}

// Refresh validates a refresh token and issues a fresh access token for the
// same subject. The refresh token itself is not rotated or extended.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	claims, err := s.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return "", err
	}
	return s.issue(claims.Subject, claims.IsAdmin, TokenKindAccess, s.accessTTL)
}
