//go:build unix

package exec

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Exec replaces the current process with the specified command.
func (e *RealExecutor) Exec(name string, args []string, env []string) error {
	binary, err := e.resolve(name, env)
	if err != nil {
		return err
	}

	argv := append([]string{name}, args...)
	run := e.execFunc
	if run == nil {
		run = unix.Exec
	}
	// #nosec G204 -- the program comes from the command line on purpose.
	if err := run(binary, argv, environ(env)); err != nil {
		return fmt.Errorf("exec %s: %w", binary, err)
	}
	return nil
}
