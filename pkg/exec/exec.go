// Package exec replaces the current process with another program, resolving
// the program name the same way the launcher does.
package exec

import (
	"os"

	"github.com/vertti/spawn/pkg/pathsearch"
)

// Executor handles in-place process replacement.
type Executor interface {
	// Exec replaces the current process with the named program. argv[0] is
	// name; an empty env means the current environment is kept.
	// On Unix this does not return on success. On Windows it returns an error.
	Exec(name string, args []string, env []string) error
}

// RealExecutor is the production implementation.
type RealExecutor struct {
	Resolver *pathsearch.Resolver

	execFunc func(path string, argv []string, env []string) error
}

func (e *RealExecutor) resolve(name string, env []string) (string, error) {
	r := e.Resolver
	if r == nil {
		r = pathsearch.New()
	}
	return r.Resolve(name, env)
}

// environ picks the environment handed to the new image.
func environ(env []string) []string {
	if len(env) > 0 {
		return env
	}
	return os.Environ()
}
