package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrDecode,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Unknown field 'foo' in section 'status'",
			suggestion: "Run 'nextracker fields' to list valid fields",
		},
		{
			name:       "transport error",
			code:       ErrTransport,
			message:    "Server answered 503 Service Unavailable",
			suggestion: "Check that the instance is up",
		},
		{
			name:       "decode error",
			code:       ErrDecode,
			message:    "Response is not JSON",
			suggestion: "Check NC_INSTANCE points at the serverinfo endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check .nextracker.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check .nextracker.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrTransport, "Connection failed", "Try again"),
			expectedParts: []string{
				"✗",
				"Connection failed",
			},
		},
		{
			name: "error without suggestion",
			err:  New(ErrDecode, "Bad body", ""),
			expectedParts: []string{
				"Bad body",
			},
			notExpected: []string{
				"\n\n  \n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	wrapped := Wrap(cause, "Request failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTransport, wrapped.Code, "Wrap should default to ErrTransport code")
	assert.Equal(t, "Request failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("invalid character '<'")
	wrapped := WrapWithCode(cause, ErrDecode, "Response is not JSON", "Check the URL")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrDecode, wrapped.Code)
	assert.Equal(t, "Response is not JSON", wrapped.Message)
	assert.Equal(t, "Check the URL", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "invalid character")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Bad config", New(ErrConfig, "Bad config", "fix it").Summary())

	wrapped := WrapWithCode(errors.New("timeout"), ErrTransport, "Request failed", "")
	assert.Equal(t, "Request failed: timeout", wrapped.Summary())
	assert.NotContains(t, wrapped.Summary(), "\n")

	nested := WrapWithCode(New(ErrTransport, "cloud.example.com answered 502 Bad Gateway", "Check the server logs"),
		ErrDecode, "Fallback failed", "")
	assert.Equal(t, "Fallback failed: cloud.example.com answered 502 Bad Gateway", nested.Summary())
}

func TestSummaryOf(t *testing.T) {
	assert.Empty(t, SummaryOf(nil))
	assert.Equal(t, "plain error", SummaryOf(errors.New("plain\n  error")))
	assert.Equal(t, "Bad config", SummaryOf(New(ErrConfig, "Bad config", "fix it")))
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrDecode, "Decode error", "")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())

	var ntErr *Error
	require.True(t, errors.As(wrapped, &ntErr))
	assert.Equal(t, ErrDecode, ntErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrTransport))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, ErrDecode, CodeOf(New(ErrDecode, "x", "")))

	// Outer structured error wins over inner one
	inner := New(ErrTransport, "inner", "")
	outer := WrapWithCode(inner, ErrConfig, "outer", "")
	assert.Equal(t, ErrConfig, CodeOf(outer))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("context deadline exceeded"),
		ErrTransport,
		"Could not reach cloud.example.com",
		"Check your network or raise --timeout",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"))
	assert.Contains(t, lines[0], "Could not reach cloud.example.com")
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantMsg string
	}{
		{name: "zero exit code", code: 0, wantMsg: "exit code 0"},
		{name: "non-zero exit code", code: 1, wantMsg: "exit code 1"},
		{name: "signal exit code", code: 137, wantMsg: "exit code 137"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExitError(tt.code)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{name: "ExitError returns code", err: NewExitError(42), wantCode: 42, wantOk: true},
		{name: "standard error returns false", err: errors.New("standard error")},
		{name: "nil error returns false", err: nil},
		{name: "structured Error returns false", err: New(ErrDecode, "test", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
