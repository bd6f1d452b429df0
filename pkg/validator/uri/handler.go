package uri

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Handler parses a URI and answers questions about the last parsed value.
// Handlers are stateful and not safe for concurrent use.
type Handler interface {
	// Parse parses s. Malformed input yields an error wrapping ErrInvalidURI.
	Parse(s string) error

	// IsValid reports whether the parsed value is a valid URI reference.
	IsValid() bool

	// IsAbsolute reports whether the parsed value has a scheme.
	IsAbsolute() bool

	// IsValidRelative reports whether the parsed value is a valid relative
	// reference.
	IsValidRelative() bool
}

// URI is the generic RFC 3986 handler.
type URI struct {
	scheme      string
	host        string
	path        string
	hasUserInfo bool
	hasPort     bool
	hasQuery    bool
	hasFragment bool
}

// NewURI creates a generic handler.
func NewURI() *URI {
	return &URI{}
}

// Parse parses s, resetting any previous state.
func (u *URI) Parse(s string) error {
	*u = URI{}

	if i := strings.IndexFunc(s, isDisallowed); i >= 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])
		return fmt.Errorf("%w: disallowed character %q at offset %d", ErrInvalidURI, r, i)
	}

	p, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	u.scheme = p.Scheme
	u.host = p.Hostname()
	u.hasPort = p.Port() != ""
	u.hasUserInfo = p.User != nil
	u.path = p.EscapedPath()
	if p.Opaque != "" {
		u.path = p.Opaque
	}
	u.hasQuery = p.RawQuery != "" || p.ForceQuery
	u.hasFragment = strings.Contains(s, "#")
	return nil
}

// IsValid reports whether the parsed value is a valid URI reference.
func (u *URI) IsValid() bool {
	if u.host != "" {
		return u.path == "" || strings.HasPrefix(u.path, "/")
	}
	if u.hasUserInfo || u.hasPort {
		return false
	}
	if u.path != "" {
		return !strings.HasPrefix(u.path, "//")
	}
	return u.hasQuery || u.hasFragment
}

// IsAbsolute reports whether the parsed value has a scheme.
func (u *URI) IsAbsolute() bool {
	return u.scheme != ""
}

// IsValidRelative reports whether the parsed value is a valid relative
// reference, i.e. valid and without a scheme.
func (u *URI) IsValidRelative() bool {
	return u.scheme == "" && u.IsValid()
}

// Scheme returns the parsed scheme in lower case.
func (u *URI) Scheme() string {
	return strings.ToLower(u.scheme)
}

// Host returns the parsed host.
func (u *URI) Host() string {
	return u.host
}

// isDisallowed reports whether r may not appear literally in a URI.
func isDisallowed(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
		return false
	}
	return !strings.ContainsRune("-._~:/?#[]@!$&'()*+,;=%", r)
}

// HTTP accepts only http and https URIs. Absolute values must name a host.
type HTTP struct {
	URI
}

// NewHTTP creates an HTTP handler.
func NewHTTP() *HTTP {
	return &HTTP{}
}

// Parse parses s and rejects schemes other than http and https.
func (h *HTTP) Parse(s string) error {
	if err := h.URI.Parse(s); err != nil {
		return err
	}
	switch h.Scheme() {
	case "", "http", "https":
		return nil
	default:
		scheme := h.scheme
		h.URI = URI{}
		return fmt.Errorf("%w: scheme %q is not http or https", ErrInvalidURI, scheme)
	}
}

// IsValid additionally requires a host for absolute values.
func (h *HTTP) IsValid() bool {
	if !h.URI.IsValid() {
		return false
	}
	return !h.IsAbsolute() || h.host != ""
}

// Verify interface compliance.
var (
	_ Handler = (*URI)(nil)
	_ Handler = (*HTTP)(nil)
)
