// Package auth implements the authentication and authorization core:
// credential verification, stateless bearer tokens and per-tenant
// role permissions.
//
// Tokens are self-contained and the service keeps no record of what
// it issued, so a token cannot be revoked before its expiry. Logout
// is client-side disposal. This is a deliberate limitation carried
// over from the system's design, not an oversight.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload.
type Claims struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens. The secret and
// TTL are fixed at construction; nothing is read from the environment
// at call time.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the user. roleID may be empty for users
// with no role assigned.
func (s *TokenService) Issue(userID, roleID string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. It returns ErrTokenExpired for
// a well-formed token past its expiry and ErrTokenMalformed for
// anything else that fails (bad signature, wrong algorithm, garbage).
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
