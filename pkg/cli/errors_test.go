package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "format",
		Message: "unknown output format",
	}

	expected := "config error in format: unknown output format"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("analyze", underlyingErr)

	if err.Error() != "command analyze failed: underlying error" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "config error", err: NewConfigError("format", "bad"), want: ExitUsage},
		{name: "wrapped config error", err: fmt.Errorf("load: %w", NewConfigError("x", "y")), want: ExitUsage},
		{name: "exit error", err: &ExitError{Code: ExitDanger}, want: ExitDanger},
		{name: "command error wrapping exit", err: NewCommandError("analyze", &ExitError{Code: 7}), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
