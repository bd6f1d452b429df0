package db

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Table identifies the relation to search. Schema is optional.
type Table struct {
	Name   string
	Schema string
}

// String returns the identifier used in the FROM clause.
func (t Table) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// isScalar reports whether v can be bound as a single query parameter.
func isScalar(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case driver.Valuer, time.Time, []byte:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// errNullValue is returned by bindValue for values that resolve to NULL.
// A NULL never satisfies field = value, and the query builder would render
// it as IS NULL instead.
var errNullValue = errors.New("value resolves to NULL")

// bindValue resolves driver.Valuer values up front so the query builder
// never mistakes array-backed types (e.g. UUIDs) for IN lists.
func bindValue(v any) (any, error) {
	if v == nil {
		return nil, errNullValue
	}
	valuer, ok := v.(driver.Valuer)
	if !ok {
		return v, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, fmt.Errorf("resolving %T: %w", v, errNullValue)
	}
	dv, err := valuer.Value()
	if err != nil {
		return nil, fmt.Errorf("resolving %T: %w", v, err)
	}
	if dv == nil {
		return nil, fmt.Errorf("resolving %T: %w", v, errNullValue)
	}
	return dv, nil
}
