package db

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/data-validator/pkg/validator"
)

func TestParseExclusion(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Exclusion
	}{
		{"nil", nil, NoExclusion{}},
		{"empty string", "", NoExclusion{}},
		{"clause", "id != 1", ExcludeClause("id != 1")},
		{"map any", map[string]any{"field": "id", "value": 1}, ExcludeField{Field: "id", Value: 1}},
		{"map string", map[string]string{"field": "id", "value": "abc"}, ExcludeField{Field: "id", Value: "abc"}},
		{"passthrough", ExcludeField{Field: "id", Value: 2}, ExcludeField{Field: "id", Value: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExclusion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExclusion_Errors(t *testing.T) {
	inputs := map[string]any{
		"missing value":  map[string]any{"field": "id"},
		"missing field":  map[string]any{"value": 1},
		"list value":     map[string]any{"field": "id", "value": []int{1, 2}},
		"unsupported":    42,
		"empty clause":   ExcludeClause(""),
		"list of fields": []string{"id"},
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExclusion(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidExclusion)
			assert.ErrorIs(t, err, validator.ErrConfiguration)
		})
	}
}

func TestExclusionCondition(t *testing.T) {
	cond, clause, err := exclusionCondition(NoExclusion{})
	require.NoError(t, err)
	assert.Nil(t, cond)
	assert.Empty(t, clause)

	cond, clause, err = exclusionCondition(nil)
	require.NoError(t, err)
	assert.Nil(t, cond)
	assert.Empty(t, clause)

	cond, clause, err = exclusionCondition(ExcludeField{Field: "id", Value: 1})
	require.NoError(t, err)
	assert.Empty(t, clause)
	query, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "id <> ?", query)
	assert.Equal(t, []any{1}, args)

	cond, clause, err = exclusionCondition(ExcludeClause("id != 1"))
	require.NoError(t, err)
	assert.Nil(t, cond)
	assert.Equal(t, "id != 1", clause)

	_, _, err = exclusionCondition(ExcludeField{Field: "id", Value: sql.NullString{}})
	assert.ErrorIs(t, err, errNullValue)
}

func TestBindValue(t *testing.T) {
	id := uuid.New()

	got, err := bindValue(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)

	got, err = bindValue("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	for _, v := range []any{nil, sql.NullString{}, uuid.NullUUID{}, (*uuid.NullUUID)(nil)} {
		_, err := bindValue(v)
		assert.ErrorIs(t, err, errNullValue, "%T", v)
	}
}

func TestParseConfig(t *testing.T) {
	t.Run("positional style", func(t *testing.T) {
		cfg, err := ParseConfig(map[string]any{
			"table":   "users",
			"field":   "field1",
			"exclude": "id != 1",
		})
		require.NoError(t, err)
		assert.Equal(t, Table{Name: "users"}, cfg.Table)
		assert.Equal(t, "field1", cfg.Field)
		assert.Equal(t, ExcludeClause("id != 1"), cfg.Exclude)
	})

	t.Run("table map with schema", func(t *testing.T) {
		cfg, err := ParseConfig(map[string]any{
			"table":   map[string]any{"table": "users", "schema": "my"},
			"field":   "field1",
			"exclude": map[string]any{"field": "id", "value": 1},
		})
		require.NoError(t, err)
		assert.Equal(t, Table{Name: "users", Schema: "my"}, cfg.Table)
		assert.Equal(t, ExcludeField{Field: "id", Value: 1}, cfg.Exclude)
	})

	t.Run("schema key overrides", func(t *testing.T) {
		cfg, err := ParseConfig(map[string]any{"table": "users", "schema": "my", "field": "email"})
		require.NoError(t, err)
		assert.Equal(t, "my.users", cfg.Table.String())
		assert.Equal(t, NoExclusion{}, cfg.Exclude)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ParseConfig(map[string]any{"field": "f"})
		assert.ErrorIs(t, err, ErrMissingTable)

		_, err = ParseConfig(map[string]any{"table": 12, "field": "f"})
		assert.ErrorIs(t, err, ErrMissingTable)

		_, err = ParseConfig(map[string]any{"table": map[string]any{"schema": "my"}, "field": "f"})
		assert.ErrorIs(t, err, ErrMissingTable)

		_, err = ParseConfig(map[string]any{"table": "users"})
		assert.ErrorIs(t, err, ErrMissingField)

		_, err = ParseConfig(map[string]any{"table": "users", "field": "f", "exclude": 3})
		assert.ErrorIs(t, err, ErrInvalidExclusion)
	})
}

func TestTable_String(t *testing.T) {
	assert.Equal(t, "users", Table{Name: "users"}.String())
	assert.Equal(t, "my.users", Table{Name: "users", Schema: "my"}.String())
}
