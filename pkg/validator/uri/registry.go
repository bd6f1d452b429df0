package uri

import (
	"fmt"
	"slices"
	"sync"

	"github.com/txn2/data-validator/pkg/validator"
)

// Built-in handler identifiers.
const (
	HandlerURI      = "uri"
	HandlerHTTP     = "http"
	HandlerTemplate = "template"
)

// Factory creates a fresh handler instance.
type Factory func() Handler

// Registry resolves handler identifiers to handler instances.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterFactory registers a factory under id.
func (r *Registry) RegisterFactory(id string, factory Factory) error {
	if id == "" || factory == nil {
		return validator.NewConfigError(fmt.Sprintf("registering handler %q", id), ErrInvalidHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return validator.NewConfigError(fmt.Sprintf("registering handler %q", id), ErrHandlerAlreadyRegistered)
	}
	r.factories[id] = factory
	return nil
}

// Resolve creates a handler for id.
func (r *Registry) Resolve(id string) (Handler, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, validator.NewConfigError(fmt.Sprintf("resolving handler %q", id), ErrUnknownHandler)
	}

	h := factory()
	if h == nil {
		return nil, validator.NewConfigError(fmt.Sprintf("resolving handler %q: factory returned nil", id), ErrInvalidHandler)
	}
	return h, nil
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RegisterBuiltinHandlers registers the uri, http and template handlers.
func RegisterBuiltinHandlers(r *Registry) {
	_ = r.RegisterFactory(HandlerURI, func() Handler { return NewURI() })
	_ = r.RegisterFactory(HandlerHTTP, func() Handler { return NewHTTP() })
	_ = r.RegisterFactory(HandlerTemplate, func() Handler { return NewTemplate() })
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	RegisterBuiltinHandlers(r)
	return r
}()

// DefaultRegistry returns the process-wide registry holding the built-in
// handlers. Custom handlers may be added to it.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
