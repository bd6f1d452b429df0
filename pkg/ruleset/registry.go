// Package ruleset builds named validation rules from configuration and
// runs them.
package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/txn2/data-validator/pkg/config"
	"github.com/txn2/data-validator/pkg/validator"
	"github.com/txn2/data-validator/pkg/validator/db"
)

// ErrRuleNotFound is returned when validating against an unknown rule name.
var ErrRuleNotFound = errors.New("rule not found")

// Deps are the shared dependencies injected into every rule.
type Deps struct {
	// Adapter backs record rules. It may be nil when no rule needs it.
	Adapter db.Adapter

	Logger *slog.Logger
}

// Factory creates a validator from its rule configuration.
type Factory func(cfg map[string]any, deps Deps) (validator.Validator, error)

// rule serializes calls into one validator, which keeps per-call state.
type rule struct {
	mu sync.Mutex
	v  validator.Validator
}

// Registry manages rule factories and the registered rules.
type Registry struct {
	mu sync.RWMutex

	// Registered rules by name
	rules map[string]*rule

	// Factory functions by kind
	factories map[string]Factory

	deps Deps
}

// NewRegistry creates a new rule registry.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Registry{
		rules:     make(map[string]*rule),
		factories: make(map[string]Factory),
		deps:      deps,
	}
}

// RegisterFactory registers a rule factory for a kind.
func (r *Registry) RegisterFactory(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Register adds a validator under name.
func (r *Registry) Register(name string, v validator.Validator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("rule %s already registered", name)
	}
	r.rules[name] = &rule{v: v}
	return nil
}

// CreateAndRegister creates a rule from config and registers it.
func (r *Registry) CreateAndRegister(name string, cfg config.RuleConfig) error {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Kind]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown rule kind: %s", cfg.Kind)
	}

	v, err := factory(cfg.Config, r.deps)
	if err != nil {
		return fmt.Errorf("creating rule %s/%s: %w", cfg.Kind, name, err)
	}

	return r.Register(name, v)
}

// Get retrieves a rule's validator by name.
func (r *Registry) Get(name string) (validator.Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.rules[name]
	if !ok {
		return nil, false
	}
	return entry.v, true
}

// Names returns the registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate runs the named rule against value. Calls to the same rule are
// serialized; distinct rules run independently.
func (r *Registry) Validate(ctx context.Context, name string, value any) (validator.Result, error) {
	r.mu.RLock()
	entry, ok := r.rules[name]
	r.mu.RUnlock()

	if !ok {
		return validator.Result{}, fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	result, err := entry.v.Validate(ctx, value)
	if err != nil {
		return validator.Result{}, fmt.Errorf("validating rule %s: %w", name, err)
	}

	r.deps.Logger.DebugContext(ctx, "rule evaluated", "rule", name, "valid", result.Valid)
	return result, nil
}
