package apperr

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrInvariant = errors.New("invariant violation")
)
