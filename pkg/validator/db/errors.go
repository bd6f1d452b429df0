package db

import "errors"

// Configuration errors. Each is returned wrapped in a validator.ConfigError.
var (
	// ErrNoAdapter is returned when neither a configured nor a default
	// adapter is available at validation time.
	ErrNoAdapter = errors.New("no database adapter present")

	// ErrMissingTable is returned when Config.Table.Name is empty.
	ErrMissingTable = errors.New("table is required")

	// ErrMissingField is returned when Config.Field is empty.
	ErrMissingField = errors.New("field is required")

	// ErrInvalidExclusion is returned when an exclusion cannot be parsed or
	// is incomplete.
	ErrInvalidExclusion = errors.New("invalid exclusion")
)
