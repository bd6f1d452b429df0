package db

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/txn2/data-validator/pkg/validator"
)

// Exclusion removes records from the existence check. It is one of
// NoExclusion, ExcludeField or ExcludeClause.
type Exclusion interface {
	isExclusion()
}

// NoExclusion checks every record.
type NoExclusion struct{}

// ExcludeField skips records where Field equals Value, typically the
// record being updated.
type ExcludeField struct {
	Field string
	Value any
}

// ExcludeClause is a raw SQL condition appended verbatim, wrapped in
// parentheses.
type ExcludeClause string

func (NoExclusion) isExclusion()   {}
func (ExcludeField) isExclusion()  {}
func (ExcludeClause) isExclusion() {}

// exclusionCondition resolves e into what the lookup query appends: a
// builder condition for ExcludeField, or a raw clause for ExcludeClause.
// Both are empty for NoExclusion.
//
// A raw clause never passes through the builder, whose placeholder rewrite
// would renumber any '?' it contains.
func exclusionCondition(e Exclusion) (cond sq.Sqlizer, clause string, err error) {
	switch x := e.(type) {
	case nil, NoExclusion:
		return nil, "", nil
	case ExcludeField:
		value, err := bindValue(x.Value)
		if err != nil {
			return nil, "", fmt.Errorf("converting exclusion value: %w", err)
		}
		return sq.NotEq{x.Field: value}, "", nil
	case ExcludeClause:
		return nil, string(x), nil
	default:
		return nil, "", fmt.Errorf("unsupported exclusion type %T", e)
	}
}

// checkExclusion reports configuration mistakes in e.
func checkExclusion(e Exclusion) error {
	switch x := e.(type) {
	case nil, NoExclusion:
		return nil
	case ExcludeField:
		if x.Field == "" {
			return validator.NewConfigError("exclusion field is empty", ErrInvalidExclusion)
		}
		if !isScalar(x.Value) {
			return validator.NewConfigError(
				fmt.Sprintf("exclusion value for %q must be scalar, got %T", x.Field, x.Value),
				ErrInvalidExclusion)
		}
		if _, err := bindValue(x.Value); err != nil {
			return validator.NewConfigError(fmt.Sprintf("exclusion value for %q", x.Field), errors.Join(ErrInvalidExclusion, err))
		}
		return nil
	case ExcludeClause:
		if x == "" {
			return validator.NewConfigError("exclusion clause is empty", ErrInvalidExclusion)
		}
		return nil
	default:
		return validator.NewConfigError(fmt.Sprintf("unsupported exclusion type %T", e), ErrInvalidExclusion)
	}
}

// ParseExclusion converts named configuration into an Exclusion. It accepts
// nil or an empty string (no exclusion), a map with "field" and "value" keys,
// a raw condition string, or an Exclusion.
func ParseExclusion(v any) (Exclusion, error) {
	switch x := v.(type) {
	case nil:
		return NoExclusion{}, nil
	case Exclusion:
		return x, checkExclusion(x)
	case string:
		if x == "" {
			return NoExclusion{}, nil
		}
		return ExcludeClause(x), nil
	case map[string]any:
		return parseExcludeMap(x)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = val
		}
		return parseExcludeMap(m)
	default:
		return nil, validator.NewConfigError(fmt.Sprintf("exclusion of type %T", v), ErrInvalidExclusion)
	}
}

func parseExcludeMap(m map[string]any) (Exclusion, error) {
	field, _ := m["field"].(string)
	value, hasValue := m["value"]
	if field == "" || !hasValue {
		return nil, validator.NewConfigError("exclusion requires field and value", ErrInvalidExclusion)
	}
	e := ExcludeField{Field: field, Value: value}
	if err := checkExclusion(e); err != nil {
		return nil, err
	}
	return e, nil
}
