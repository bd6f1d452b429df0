package validator

import (
	"fmt"
	"strings"
)

// Failure records why a value did not validate.
type Failure struct {
	// Kind is the message key, e.g. "recordFound".
	Kind string

	// Template is the message template with %name% placeholders.
	Template string

	// Params holds the interpolation values for Template.
	Params map[string]string
}

// Message returns the template with its placeholders substituted.
func (f Failure) Message() string {
	return Interpolate(f.Template, f.Params)
}

// Result is the outcome of a single validation call.
type Result struct {
	Valid    bool
	Failures []Failure
}

// Pass returns a valid result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail returns an invalid result carrying the given failures.
func Fail(failures ...Failure) Result {
	return Result{Valid: false, Failures: failures}
}

// Messages returns the interpolated messages keyed by failure kind.
// The map is empty, never nil, for a valid result.
func (r Result) Messages() map[string]string {
	msgs := make(map[string]string, len(r.Failures))
	for _, f := range r.Failures {
		msgs[f.Kind] = f.Message()
	}
	return msgs
}

// Interpolate replaces every %name% placeholder in tmpl with params[name].
// Unknown placeholders are left untouched.
func Interpolate(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "%"+k+"%", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// FormatValue renders an input value for use in a message.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
