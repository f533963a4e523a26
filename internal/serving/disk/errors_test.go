package disk

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected bool
	}{
		"not_exist":     {err: &os.PathError{Op: "open", Path: "x", Err: syscall.ENOENT}, expected: true},
		"not_a_dir":     {err: &os.PathError{Op: "lstat", Path: "x", Err: syscall.ENOTDIR}, expected: true},
		"symlink_loop":  {err: &os.PathError{Op: "open", Path: "x", Err: syscall.ELOOP}, expected: true},
		"outside_root":  {err: fmt.Errorf("resolving: %w", errOutsideRoot), expected: true},
		"directory":     {err: errIsDirectory, expected: true},
		"device":        {err: errNotRegularFile, expected: true},
		"permission":    {err: &os.PathError{Op: "open", Path: "x", Err: syscall.EACCES}, expected: false},
		"unknown_error": {err: errors.New("disk on fire"), expected: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.expected, isNotFound(tt.err))
		})
	}
}
