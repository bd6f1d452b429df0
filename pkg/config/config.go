// Package config loads the YAML configuration describing the database
// connection, logging and the named validation rules.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule kinds.
const (
	KindRecordExists   = "record_exists"
	KindNoRecordExists = "no_record_exists"
	KindURI            = "uri"
)

// RuleKinds lists every supported rule kind.
var RuleKinds = []string{KindRecordExists, KindNoRecordExists, KindURI}

// Database drivers.
const (
	DriverPQ  = "postgres"
	DriverPgx = "pgx"
)

const defaultMaxOpenConns = 5

// Config holds the complete configuration.
type Config struct {
	Database DatabaseConfig        `yaml:"database"`
	Log      LogConfig             `yaml:"log"`
	Rules    map[string]RuleConfig `yaml:"rules"`
}

// DatabaseConfig configures the database connection used by record rules.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	Driver       string `yaml:"driver"` // "postgres" (lib/pq) or "pgx"
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}

// RuleConfig defines one named validation rule.
type RuleConfig struct {
	Kind   string         `yaml:"kind"`
	Config map[string]any `yaml:"config"`
}

// NeedsDatabase reports whether the rule queries the database.
func (r RuleConfig) NeedsDatabase() bool {
	return r.Kind == KindRecordExists || r.Kind == KindNoRecordExists
}

// LoadConfig loads configuration from a file.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from YAML, expanding ${VAR} references and
// applying defaults.
func Parse(data []byte) (*Config, error) {
	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// applyDefaults applies default values to the config.
func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPQ
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleConfig{}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case DriverPQ, DriverPgx:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not supported", c.Log.Format))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err.Error())
	}

	for _, name := range c.RuleNames() {
		rule := c.Rules[name]
		switch {
		case rule.Kind == "":
			errs = append(errs, fmt.Sprintf("rules.%s.kind is required", name))
		case !slices.Contains(RuleKinds, rule.Kind):
			errs = append(errs, fmt.Sprintf("rules.%s.kind %q is unknown", name, rule.Kind))
		}
		if rule.NeedsDatabase() && c.Database.DSN == "" {
			errs = append(errs, fmt.Sprintf("rules.%s requires database.dsn", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// NeedsDatabase reports whether any rule queries the database.
func (c *Config) NeedsDatabase() bool {
	for _, rule := range c.Rules {
		if rule.NeedsDatabase() {
			return true
		}
	}
	return false
}

// RuleNames returns the rule names in sorted order.
func (c *Config) RuleNames() []string {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SlogLevel converts Level to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is not supported", l.Level)
	}
	return level, nil
}
