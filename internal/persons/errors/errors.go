package errors

import "errors"

var (
	ErrNotFound = errors.New("person not found")

	ErrInvalidID = errors.New("invalid person ID format")
)
