// Package apperr defines the error sentinels shared across the core engines.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrOutOfRange marks page/surah/ayah arguments outside their valid
	// bounds. Raised synchronously, before any I/O.
	ErrOutOfRange = errors.New("out of range")

	// ErrNoData marks an upstream response that contained no verses for a
	// page that should have some.
	ErrNoData = errors.New("no data")

	// ErrUnavailable marks a cache or store that could not be reached, as
	// opposed to a failed remote fetch.
	ErrUnavailable = errors.New("unavailable")
)
