// Package db provides validators that check a value against existing
// database records: RecordExists passes when a matching record is present,
// NoRecordExists when it is absent.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/txn2/data-validator/pkg/validator"
)

// Failure kinds.
const (
	KindInvalidType   = "invalidType"
	KindNoRecordFound = "noRecordFound"
	KindRecordFound   = "recordFound"
)

// DefaultTemplates are the message templates of both record validators.
var DefaultTemplates = validator.Templates{
	KindInvalidType:   "Invalid type given. Scalar expected",
	KindNoRecordFound: "No record matching '%value%' was found in %table%",
	KindRecordFound:   "A record matching '%value%' was found in %table%",
}

// Config configures a record validator.
type Config struct {
	Table   Table
	Field   string
	Exclude Exclusion

	// Adapter is optional; DefaultAdapter is used when nil.
	Adapter Adapter

	// Logger is optional; slog.Default is used when nil.
	Logger *slog.Logger
}

// lookup holds the query construction shared by both validators.
type lookup struct {
	table   Table
	field   string
	exclude Exclusion
	adapter Adapter
	logger  *slog.Logger
}

func newLookup(cfg Config) (lookup, error) {
	if cfg.Table.Name == "" {
		return lookup{}, validator.NewConfigError("building record validator", ErrMissingTable)
	}
	if cfg.Field == "" {
		return lookup{}, validator.NewConfigError("building record validator", ErrMissingField)
	}
	if cfg.Exclude == nil {
		cfg.Exclude = NoExclusion{}
	}
	if err := checkExclusion(cfg.Exclude); err != nil {
		return lookup{}, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return lookup{
		table:   cfg.Table,
		field:   cfg.Field,
		exclude: cfg.Exclude,
		adapter: cfg.Adapter,
		logger:  cfg.Logger,
	}, nil
}

func (l *lookup) resolveAdapter() (Adapter, error) {
	if l.adapter != nil {
		return l.adapter, nil
	}
	if a := DefaultAdapter(); a != nil {
		return a, nil
	}
	return nil, validator.NewConfigError("", ErrNoAdapter)
}

// build renders the SELECT for the bound argument in the adapter's dialect.
// A raw exclusion clause is appended after placeholders are rendered.
func (l *lookup) build(a Adapter, arg any) (string, []any, error) {
	cond, clause, err := exclusionCondition(l.exclude)
	if err != nil {
		return "", nil, err
	}

	qb := sq.StatementBuilder.PlaceholderFormat(a.Placeholder()).
		Select(l.field).
		From(l.table.String()).
		Where(sq.Eq{l.field: arg})
	if cond != nil {
		qb = qb.Where(cond)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building record query: %w", err)
	}
	if clause != "" {
		query += " AND (" + clause + ")"
	}
	return query, args, nil
}

// exists reports whether the query for arg yields a current row. Exactly
// one query is issued and at most one row is read.
func (l *lookup) exists(ctx context.Context, a Adapter, arg any) (bool, error) {
	query, args, err := l.build(a, arg)
	if err != nil {
		return false, err
	}

	l.logger.DebugContext(ctx, "checking record",
		"table", l.table.String(), "field", l.field, "sql", query)

	rows, err := a.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", l.table, err)
	}
	defer func() { _ = rows.Close() }()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("reading %s: %w", l.table, err)
	}
	return found, nil
}

// check runs the lookup and records the outcome on base. wantRow selects
// between RecordExists (true) and NoRecordExists (false).
func (l *lookup) check(ctx context.Context, base *validator.Base, value any, wantRow bool) (validator.Result, error) {
	a, err := l.resolveAdapter()
	if err != nil {
		base.Record(validator.Result{})
		return validator.Result{}, err
	}

	if !isScalar(value) {
		return base.Record(validator.Fail(base.Failure(KindInvalidType, value, nil))), nil
	}

	arg, err := bindValue(value)
	switch {
	case errors.Is(err, errNullValue):
		return base.Record(validator.Fail(base.Failure(KindInvalidType, value, nil))), nil
	case err != nil:
		base.Record(validator.Result{})
		return validator.Result{}, err
	}

	found, err := l.exists(ctx, a, arg)
	if err != nil {
		base.Record(validator.Result{})
		return validator.Result{}, err
	}

	if found == wantRow {
		return base.Record(validator.Pass()), nil
	}

	kind := KindNoRecordFound
	if found {
		kind = KindRecordFound
	}
	params := map[string]string{"table": l.table.String(), "field": l.field}
	return base.Record(validator.Fail(base.Failure(kind, value, params))), nil
}

// RecordExists passes when a record with field = value exists.
type RecordExists struct {
	validator.Base
	lookup lookup
}

// NewRecordExists creates a RecordExists validator.
func NewRecordExists(cfg Config) (*RecordExists, error) {
	l, err := newLookup(cfg)
	if err != nil {
		return nil, err
	}
	return &RecordExists{Base: validator.NewBase(DefaultTemplates), lookup: l}, nil
}

// Validate checks value. A missing adapter or a failing query is returned
// as an error, never as an invalid result.
func (v *RecordExists) Validate(ctx context.Context, value any) (validator.Result, error) {
	return v.lookup.check(ctx, &v.Base, value, true)
}

// IsValid reports whether value validates. Messages explains a false result.
func (v *RecordExists) IsValid(ctx context.Context, value any) (bool, error) {
	r, err := v.Validate(ctx, value)
	return r.Valid, err
}

// Table returns the configured table.
func (v *RecordExists) Table() Table { return v.lookup.table }

// Field returns the configured field.
func (v *RecordExists) Field() string { return v.lookup.field }

// Exclude returns the configured exclusion.
func (v *RecordExists) Exclude() Exclusion { return v.lookup.exclude }

// Adapter returns the configured adapter, which may be nil.
func (v *RecordExists) Adapter() Adapter { return v.lookup.adapter }

// SetAdapter replaces the adapter.
func (v *RecordExists) SetAdapter(a Adapter) { v.lookup.adapter = a }

// NoRecordExists passes when no record with field = value exists. It is the
// exact negation of RecordExists over the same query.
type NoRecordExists struct {
	validator.Base
	lookup lookup
}

// NewNoRecordExists creates a NoRecordExists validator.
func NewNoRecordExists(cfg Config) (*NoRecordExists, error) {
	l, err := newLookup(cfg)
	if err != nil {
		return nil, err
	}
	return &NoRecordExists{Base: validator.NewBase(DefaultTemplates), lookup: l}, nil
}

// Validate checks value. A missing adapter or a failing query is returned
// as an error, never as an invalid result.
func (v *NoRecordExists) Validate(ctx context.Context, value any) (validator.Result, error) {
	return v.lookup.check(ctx, &v.Base, value, false)
}

// IsValid reports whether value validates. Messages explains a false result.
func (v *NoRecordExists) IsValid(ctx context.Context, value any) (bool, error) {
	r, err := v.Validate(ctx, value)
	return r.Valid, err
}

// Table returns the configured table.
func (v *NoRecordExists) Table() Table { return v.lookup.table }

// Field returns the configured field.
func (v *NoRecordExists) Field() string { return v.lookup.field }

// Exclude returns the configured exclusion.
func (v *NoRecordExists) Exclude() Exclusion { return v.lookup.exclude }

// Adapter returns the configured adapter, which may be nil.
func (v *NoRecordExists) Adapter() Adapter { return v.lookup.adapter }

// SetAdapter replaces the adapter.
func (v *NoRecordExists) SetAdapter(a Adapter) { v.lookup.adapter = a }

// Verify interface compliance.
var (
	_ validator.Validator = (*RecordExists)(nil)
	_ validator.Validator = (*NoRecordExists)(nil)
)
