package uri

import "errors"

var (
	// ErrInvalidURI is returned by Handler.Parse for malformed input.
	// The validator folds it into an invalid result.
	ErrInvalidURI = errors.New("invalid uri")

	// ErrUnknownHandler is returned when a handler identifier is not
	// registered.
	ErrUnknownHandler = errors.New("unknown uri handler")

	// ErrInvalidHandler is returned when a value given as handler does not
	// provide the Handler capabilities.
	ErrInvalidHandler = errors.New("invalid uri handler")

	// ErrHandlerAlreadyRegistered is returned when registering an identifier
	// twice.
	ErrHandlerAlreadyRegistered = errors.New("uri handler already registered")
)
