package disk

import (
	"errors"
	"os"
	"syscall"
)

var (
	errOutsideRoot    = errors.New("path resolves outside of the files root")
	errIsDirectory    = errors.New("location error accessing directory where file expected")
	errNotRegularFile = errors.New("not a regular file")
)

var notFoundErrors = []error{
	os.ErrNotExist,
	errOutsideRoot,
	errIsDirectory,
	errNotRegularFile,
	syscall.ENOTDIR,
	syscall.ELOOP,
	syscall.ENAMETOOLONG,
}

// isNotFound reports whether err should be answered with a 404
func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
