package errors

import "errors"

var (
	ErrNotFound = errors.New("team not found")

	ErrInvalidID = errors.New("invalid team ID format")
)
