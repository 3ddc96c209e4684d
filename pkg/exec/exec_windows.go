//go:build windows

package exec

import "errors"

// ErrExecNotSupported indicates exec mode is not available on Windows.
var ErrExecNotSupported = errors.New("exec mode not supported on Windows; use run without --replace")

// Exec is not supported on Windows, which has no call that replaces the
// running image.
func (e *RealExecutor) Exec(name string, args []string, env []string) error {
	return ErrExecNotSupported
}
