// Package validator defines the contract shared by all input validators:
// an explicit Result per call, message templates keyed by failure kind,
// and the split between configuration errors and validation failures.
package validator

import (
	"context"
	"fmt"
	"maps"
	"strings"
)

// Validator checks a single input value.
//
// Validate returns a non-nil error only for configuration or runtime problems
// such as a missing database adapter. An invalid input is reported through
// Result with a nil error.
type Validator interface {
	Validate(ctx context.Context, value any) (Result, error)
}

// Templates maps failure kinds to message templates.
type Templates map[string]string

// Base carries the message templates and the result of the last call.
// Validators embed it.
//
// Base is not safe for concurrent use: every call overwrites the last result.
// Use one validator instance per goroutine.
type Base struct {
	templates Templates
	last      Result
	obscure   bool
}

// NewBase creates a Base recognizing exactly the kinds in defaults.
func NewBase(defaults Templates) Base {
	return Base{templates: maps.Clone(defaults), last: Pass()}
}

// MessageTemplates returns a copy of the current templates.
func (b *Base) MessageTemplates() Templates {
	return maps.Clone(b.templates)
}

// SetMessage overrides the template for kind. The set of kinds is fixed.
func (b *Base) SetMessage(kind, tmpl string) error {
	if _, ok := b.templates[kind]; !ok {
		return NewConfigError(fmt.Sprintf("setting message %q", kind), ErrUnknownMessageKey)
	}
	b.templates[kind] = tmpl
	return nil
}

// SetValueObscured controls whether %value% is masked in messages.
func (b *Base) SetValueObscured(obscure bool) {
	b.obscure = obscure
}

// ValueObscured reports whether %value% is masked in messages.
func (b *Base) ValueObscured() bool {
	return b.obscure
}

// Failure builds a Failure for kind using the current template. The value
// parameter is masked when obscuring is enabled.
func (b *Base) Failure(kind string, value any, params map[string]string) Failure {
	p := make(map[string]string, len(params)+1)
	maps.Copy(p, params)
	v := FormatValue(value)
	if b.obscure {
		v = strings.Repeat("*", len(v))
	}
	p["value"] = v
	return Failure{Kind: kind, Template: b.templates[kind], Params: p}
}

// Record stores r as the last result and returns it.
func (b *Base) Record(r Result) Result {
	b.last = r
	return r
}

// LastResult returns the result of the most recent call.
func (b *Base) LastResult() Result {
	return b.last
}

// Messages returns the messages of the most recent call. It is empty before
// the first call and after a successful one.
func (b *Base) Messages() map[string]string {
	return b.last.Messages()
}
