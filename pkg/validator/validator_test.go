package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKind = "notFound"

func newTestBase() Base {
	return NewBase(Templates{testKind: "'%value%' not found in %table%"})
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name   string
		tmpl   string
		params map[string]string
		want   string
	}{
		{"no params", "plain %value%", nil, "plain %value%"},
		{"single", "got %value%", map[string]string{"value": "x"}, "got x"},
		{"multiple", "%value% in %table%", map[string]string{"value": "a", "table": "users"}, "a in users"},
		{"unknown placeholder kept", "%value% %other%", map[string]string{"value": "a"}, "a %other%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.tmpl, tt.params))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue("abc"))
	assert.Equal(t, "raw", FormatValue([]byte("raw")))
	assert.Equal(t, "42", FormatValue(42))
	assert.Equal(t, "true", FormatValue(true))
}

func TestResult_Messages(t *testing.T) {
	t.Run("valid result has empty messages", func(t *testing.T) {
		msgs := Pass().Messages()
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)
	})

	t.Run("failures are interpolated", func(t *testing.T) {
		r := Fail(Failure{Kind: testKind, Template: "bad %value%", Params: map[string]string{"value": "v"}})
		assert.False(t, r.Valid)
		assert.Equal(t, map[string]string{testKind: "bad v"}, r.Messages())
	})
}

func TestBase_Messages(t *testing.T) {
	b := newTestBase()
	assert.Empty(t, b.Messages(), "no call made yet")

	b.Record(Fail(b.Failure(testKind, "value1", map[string]string{"table": "users"})))
	assert.Equal(t, map[string]string{testKind: "'value1' not found in users"}, b.Messages())

	b.Record(Pass())
	assert.Empty(t, b.Messages(), "success clears previous failure")
}

func TestBase_SetMessage(t *testing.T) {
	b := newTestBase()

	require.NoError(t, b.SetMessage(testKind, "custom %value%"))
	assert.Equal(t, "custom %value%", b.MessageTemplates()[testKind])

	err := b.SetMessage("nope", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, ErrUnknownMessageKey)
	assert.NotContains(t, b.MessageTemplates(), "nope")
}

func TestBase_MessageTemplatesIsCopy(t *testing.T) {
	b := newTestBase()
	tmpls := b.MessageTemplates()
	tmpls[testKind] = "mutated"
	assert.NotEqual(t, "mutated", b.MessageTemplates()[testKind])
}

func TestBase_ValueObscured(t *testing.T) {
	b := newTestBase()
	assert.False(t, b.ValueObscured())

	b.SetValueObscured(true)
	f := b.Failure(testKind, "secret", map[string]string{"table": "users"})
	assert.Equal(t, "'******' not found in users", f.Message())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("boom")

	err := NewConfigError("loading handler", cause)
	assert.Equal(t, "loading handler: boom", err.Error())
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", NewConfigError("no cause", nil))
	assert.ErrorIs(t, wrapped, ErrConfiguration)
	assert.Equal(t, "outer: no cause", wrapped.Error())

	assert.Equal(t, "boom", NewConfigError("", cause).Error())
}
