package validator

import "errors"

// ErrConfiguration is wrapped by every error that signals a misconfigured
// validator rather than an invalid input.
var ErrConfiguration = errors.New("validator configuration error")

// ErrUnknownMessageKey is returned when a message template is set for a
// failure kind the validator does not produce.
var ErrUnknownMessageKey = errors.New("unknown message key")

// ConfigError describes a configuration mistake. It matches ErrConfiguration
// with errors.Is and unwraps to its cause.
type ConfigError struct {
	Msg string
	Err error
}

// NewConfigError creates a ConfigError with an optional cause.
func NewConfigError(msg string, cause error) *ConfigError {
	return &ConfigError{Msg: msg, Err: cause}
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (*ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
