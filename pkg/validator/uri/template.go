package uri

import (
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// Template accepts RFC 6570 URI templates such as "/users/{id}{?fields}".
// The template must compile, and its expansion with no variables bound
// must be a valid URI reference.
type Template struct {
	URI
	varnames []string
}

// NewTemplate creates a Template handler.
func NewTemplate() *Template {
	return &Template{}
}

// Parse compiles s as a URI template and parses its empty expansion.
func (t *Template) Parse(s string) error {
	t.varnames = nil

	tmpl, err := uritemplate.New(s)
	if err != nil {
		t.URI = URI{}
		return fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	expanded, err := tmpl.Expand(uritemplate.Values{})
	if err != nil {
		t.URI = URI{}
		return fmt.Errorf("%w: expanding template: %w", ErrInvalidURI, err)
	}

	if err := t.URI.Parse(expanded); err != nil {
		return err
	}
	t.varnames = tmpl.Varnames()
	return nil
}

// Varnames returns the variable names of the last parsed template.
func (t *Template) Varnames() []string {
	return t.varnames
}

// Verify interface compliance.
var _ Handler = (*Template)(nil)
