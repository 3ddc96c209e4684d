//go:build unix

package pathsearch

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultPlatform returns POSIX conventions: ':' separated search paths, and
// names starting with '/' or '.' are treated as paths.
func DefaultPlatform() Platform {
	return Platform{
		ListSeparator: ':',
		IsExplicit: func(name string) bool {
			return strings.HasPrefix(name, "/") || strings.HasPrefix(name, ".")
		},
	}
}

// RealChecker asks the kernel whether the real user may execute a file.
type RealChecker struct{}

// Executable uses access(2) with X_OK. Directories are rejected even though
// the kernel reports them searchable.
func (c *RealChecker) Executable(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}
	return nil
}
