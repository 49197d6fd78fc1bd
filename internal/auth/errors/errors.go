package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already taken")
	ErrSessionNotFound = errors.New("session not found")
	ErrBadCredentials  = errors.New("invalid username or password")
)
