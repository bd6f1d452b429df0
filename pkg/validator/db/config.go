package db

import (
	"fmt"

	"github.com/txn2/data-validator/pkg/validator"
)

// ParseConfig parses a record validator configuration from a map. The
// adapter and logger are not part of the map and must be set by the caller.
//
// Recognized keys: table (string, or map with table and schema), schema,
// field, exclude.
func ParseConfig(cfg map[string]any) (Config, error) {
	var c Config

	table, err := parseTable(cfg["table"])
	if err != nil {
		return c, err
	}
	if schema := getString(cfg, "schema"); schema != "" {
		table.Schema = schema
	}
	c.Table = table

	c.Field = getString(cfg, "field")
	if c.Field == "" {
		return c, validator.NewConfigError("parsing record config", ErrMissingField)
	}

	c.Exclude, err = ParseExclusion(cfg["exclude"])
	if err != nil {
		return c, err
	}

	return c, nil
}

func parseTable(v any) (Table, error) {
	switch t := v.(type) {
	case string:
		if t != "" {
			return Table{Name: t}, nil
		}
	case map[string]any:
		name := getString(t, "table")
		if name != "" {
			return Table{Name: name, Schema: getString(t, "schema")}, nil
		}
	case Table:
		if t.Name != "" {
			return t, nil
		}
	case nil:
	default:
		return Table{}, validator.NewConfigError(fmt.Sprintf("table of type %T", v), ErrMissingTable)
	}
	return Table{}, validator.NewConfigError("parsing record config", ErrMissingTable)
}

func getString(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}
