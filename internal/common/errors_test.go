package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError("expected 2 arguments, got 1", ErrUsage)

	assert.Equal(t, "expected 2 arguments, got 1: usage error", err.Error())
	assert.ErrorIs(t, err, ErrUsage)
	assert.True(t, IsUsageError(err))
	assert.True(t, IsUsageError(fmt.Errorf("wrapped: %w", err)))
}

func TestUsageErrorWithoutCause(t *testing.T) {
	err := &UsageError{UserMessage: "bad input"}

	assert.Equal(t, "bad input", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}

func TestIsUsageError(t *testing.T) {
	assert.False(t, IsUsageError(nil))
	assert.False(t, IsUsageError(ErrParse))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "usage", err: NewUsageError("missing output", ErrUsage), want: 1},
		{name: "parse", err: fmt.Errorf("%w: bad tag", ErrParse), want: 1},
		{name: "write", err: ErrWrite, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
