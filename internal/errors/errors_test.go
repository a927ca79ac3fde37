//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrNotFound, ErrParse)
	assert.NotEqual(t, ErrNotFound, ErrValidation)
	assert.NotEqual(t, ErrParse, ErrConnectivity)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "not found",
		Message:  "could not resolve main file",
		Location: "node_modules/foo/package.json",
		Context:  map[string]string{"Package": "foo"},
		Hint:     "Check the main field",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: not found")
	assert.Contains(t, output, "Location: node_modules/foo/package.json")
	assert.Contains(t, output, "Package: foo")
	assert.Contains(t, output, "could not resolve main file")
	assert.Contains(t, output, "Hint: Check the main field")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrParse,
	}

	assert.True(t, errors.Is(detail, ErrParse))
	assert.Equal(t, ErrParse, detail.Unwrap())
}

func TestNewParseError(t *testing.T) {
	err := NewParseError("invalid package.json", "foo/package.json", errors.New("unexpected end of JSON input"))

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "parse failed", detail.Type)
	assert.Equal(t, "invalid package.json: unexpected end of JSON input", detail.Message)
	assert.Equal(t, "foo/package.json", detail.Location)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("could not find lib/bar", "foo", "")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrParse))
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrValidation, "config check failed")

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Contains(t, wrapped.Error(), "config check failed")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", fmt.Errorf("reading main: %w", ErrNotFound), ExitNotFound},
		{"parse", NewParseError("bad", "", nil), ExitParseError},
		{"validation", Wrap(ErrValidation, "bad flag"), ExitValidationError},
		{"connectivity", Wrap(ErrConnectivity, "cdn down"), ExitConnectivityError},
		{"explicit", &ExitError{Code: 42, Err: errors.New("boom")}, 42},
		{"unknown", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}
