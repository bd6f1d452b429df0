// Package uri provides a validator that accepts well-formed URIs, with a
// policy deciding whether absolute URIs, relative references, or both pass.
// Parsing is delegated to a swappable Handler.
package uri

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/txn2/data-validator/pkg/validator"
)

// Failure kinds.
const (
	KindInvalidType = "uriInvalid"
	KindNotURI      = "notUri"
)

// DefaultTemplates are the message templates of the URI validator.
var DefaultTemplates = validator.Templates{
	KindInvalidType: "Invalid type given. String expected",
	KindNotURI:      "'%value%' does not appear to be a valid Uri",
}

// Options configures a Validator.
type Options struct {
	// Handler is a Handler instance or a registry identifier. When nil the
	// generic URI handler is created on first use.
	Handler any

	AllowAbsolute bool
	AllowRelative bool

	// Registry resolves handler identifiers. Defaults to DefaultRegistry.
	Registry *Registry

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns options accepting both absolute and relative URIs.
func DefaultOptions() Options {
	return Options{AllowAbsolute: true, AllowRelative: true}
}

// Option is a functional option for configuring the validator.
type Option func(*Options)

// WithHandler sets the handler instance.
func WithHandler(h Handler) Option {
	return func(o *Options) {
		o.Handler = h
	}
}

// WithHandlerID sets the handler by registry identifier.
func WithHandlerID(id string) Option {
	return func(o *Options) {
		o.Handler = id
	}
}

// WithAllowAbsolute sets whether absolute URIs pass.
func WithAllowAbsolute(allow bool) Option {
	return func(o *Options) {
		o.AllowAbsolute = allow
	}
}

// WithAllowRelative sets whether relative references pass.
func WithAllowRelative(allow bool) Option {
	return func(o *Options) {
		o.AllowRelative = allow
	}
}

// WithRegistry sets the registry used to resolve handler identifiers.
func WithRegistry(r *Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Validator validates URIs. It is not safe for concurrent use.
type Validator struct {
	validator.Base
	handler       Handler
	registry      *Registry
	allowAbsolute bool
	allowRelative bool
	logger        *slog.Logger
}

// New creates a validator starting from DefaultOptions.
func New(opts ...Option) (*Validator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates a validator from o. A handler that cannot be
// resolved is a configuration error.
func NewWithOptions(o Options) (*Validator, error) {
	if o.Registry == nil {
		o.Registry = DefaultRegistry()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	v := &Validator{
		Base:          validator.NewBase(DefaultTemplates),
		registry:      o.Registry,
		allowAbsolute: o.AllowAbsolute,
		allowRelative: o.AllowRelative,
		logger:        o.Logger,
	}
	if o.Handler != nil {
		if err := v.SetHandler(o.Handler); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// SetHandler sets the handler from a Handler instance or a registry
// identifier. Resolution happens immediately.
func (v *Validator) SetHandler(h any) error {
	switch x := h.(type) {
	case Handler:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return validator.NewConfigError(fmt.Sprintf("nil %T", h), ErrInvalidHandler)
		}
		v.handler = x
		return nil
	case string:
		resolved, err := v.registry.Resolve(x)
		if err != nil {
			return err
		}
		v.handler = resolved
		return nil
	default:
		return validator.NewConfigError(fmt.Sprintf("%T does not implement uri.Handler", h), ErrInvalidHandler)
	}
}

// Handler returns the handler, creating the generic URI handler on first
// use.
func (v *Validator) Handler() Handler {
	if v.handler == nil {
		v.handler = NewURI()
	}
	return v.handler
}

// AllowAbsolute reports whether absolute URIs pass.
func (v *Validator) AllowAbsolute() bool { return v.allowAbsolute }

// SetAllowAbsolute sets whether absolute URIs pass.
func (v *Validator) SetAllowAbsolute(allow bool) *Validator {
	v.allowAbsolute = allow
	return v
}

// AllowRelative reports whether relative references pass.
func (v *Validator) AllowRelative() bool { return v.allowRelative }

// SetAllowRelative sets whether relative references pass.
func (v *Validator) SetAllowRelative(allow bool) *Validator {
	v.allowRelative = allow
	return v
}

// Validate checks value. Non-string values and unparsable strings yield an
// invalid result; the error is always nil.
func (v *Validator) Validate(_ context.Context, value any) (validator.Result, error) {
	return v.validate(value), nil
}

// IsValid reports whether value is a URI accepted by the policy. Messages
// explains a false result.
func (v *Validator) IsValid(value any) bool {
	return v.validate(value).Valid
}

func (v *Validator) validate(value any) validator.Result {
	s, ok := stringValue(value)
	if !ok {
		return v.Record(validator.Fail(v.Failure(KindInvalidType, value, nil)))
	}

	h := v.Handler()
	if err := h.Parse(s); err != nil {
		v.logger.Debug("uri parse failed", "error", err)
		return v.Record(validator.Fail(v.Failure(KindNotURI, s, nil)))
	}
	if !h.IsValid() {
		return v.Record(validator.Fail(v.Failure(KindNotURI, s, nil)))
	}

	if (v.allowAbsolute && h.IsAbsolute()) || (v.allowRelative && h.IsValidRelative()) {
		return v.Record(validator.Pass())
	}
	return v.Record(validator.Fail(v.Failure(KindNotURI, s, nil)))
}

// stringValue returns value as a string if its kind is string.
func stringValue(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if s, ok := value.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// Verify interface compliance.
var _ validator.Validator = (*Validator)(nil)
