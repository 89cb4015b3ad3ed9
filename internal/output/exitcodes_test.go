package output

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		wantCode int
		wantMsg  string
	}{
		{"user", NewUserError("malformed node id \"0x\""), ExitUserError, "malformed node id \"0x\""},
		{"system", NewSystemError("writing map.json failed"), ExitSystemError, "writing map.json failed"},
		{"conflict", NewConflictError("directory already exists: out/Root"), ExitConflict, "directory already exists: out/Root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("reading out/Root/Root.md: %w", fs.ErrPermission)
	err := Wrap(ExitSystemError, cause)

	if err.Code != ExitSystemError {
		t.Errorf("Code = %d, want %d", err.Code, ExitSystemError)
	}
	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), cause.Error())
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user", NewUserError("bad input"), ExitUserError},
		{"system", NewSystemError("disk full"), ExitSystemError},
		{"conflict", NewConflictError("exists"), ExitConflict},
		{"wrapped exit error", fmt.Errorf("to-dirs: %w", NewConflictError("exists")), ExitConflict},
		{"plain error", errors.New("some error"), ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
