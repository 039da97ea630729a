package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password,
	// so callers cannot tell which of the two failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// User represents a registered account. PasswordHash never leaves the
// service layer; handlers only ever see sanitized copies.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the public view of an authenticated user, mirrored into the
// client-held session token.
type Session struct {
	UserID    int64
	Name      string
	Email     string
	CreatedAt time.Time
}
