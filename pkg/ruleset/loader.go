package ruleset

import (
	"fmt"

	"github.com/txn2/data-validator/pkg/config"
)

// Loader loads rules from configuration.
type Loader struct {
	registry *Registry
}

// NewLoader creates a new rule loader.
func NewLoader(registry *Registry) *Loader {
	return &Loader{registry: registry}
}

// Load creates and registers every configured rule.
func (l *Loader) Load(cfg *config.Config) error {
	for _, name := range cfg.RuleNames() {
		if err := l.registry.CreateAndRegister(name, cfg.Rules[name]); err != nil {
			return fmt.Errorf("loading rule %s: %w", name, err)
		}
	}
	return nil
}
