package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fundflow/internal/domain"
)

// ErrInvalidSession is returned when a session token is absent, expired,
// malformed or signed with the wrong key.
var ErrInvalidSession = errors.New("invalid session")

// Sessions issues and verifies the client-held session token. The token is
// a signed JWT carrying the user's public profile, so restoring a session
// needs no database round trip. There is no server-side revocation: a
// token stays valid until it expires or the client discards it.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	AccountCreated string `json:"account_created"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given session profile.
func (s *Sessions) Issue(session domain.Session) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Name:           session.Name,
		Email:          session.Email,
		AccountCreated: session.CreatedAt.UTC().Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(session.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and reconstructs the session it carries.
func (s *Sessions) Parse(tokenString string) (*domain.Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidSession
	}

	createdAt, err := time.Parse(time.RFC3339, claims.AccountCreated)
	if err != nil {
		return nil, ErrInvalidSession
	}

	return &domain.Session{
		UserID:    userID,
		Name:      claims.Name,
		Email:     claims.Email,
		CreatedAt: createdAt,
	}, nil
}

// TTL reports the configured session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}
