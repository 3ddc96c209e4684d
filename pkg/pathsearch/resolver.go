// Package pathsearch resolves program names to executable paths the way a
// shell does, against an explicit environment or the inherited one.
package pathsearch

import (
	"path/filepath"
	"strings"
)

// Platform holds the path conventions used to interpret names and search paths.
type Platform struct {
	ListSeparator byte
	IsExplicit    func(name string) bool
}

// Checker decides whether the caller may execute a path.
type Checker interface {
	Executable(path string) error
}

// Resolver turns a program name into an absolute executable path.
type Resolver struct {
	Platform Platform
	Env      EnvGetter // inherited environment, consulted when the launch environment is empty
	Check    Checker
}

// New returns a Resolver for the current platform and process environment.
func New() *Resolver {
	return &Resolver{
		Platform: DefaultPlatform(),
		Env:      &RealEnvGetter{},
		Check:    &RealChecker{},
	}
}

// Resolve resolves name with a default Resolver.
func Resolve(name string, env Environ) (string, error) {
	return New().Resolve(name, env)
}

// Resolve returns the absolute path of the executable name refers to.
//
// Names that already look like paths are checked as-is and never searched.
// Bare names are tried against each search path entry in order; the first
// executable match wins.
func (r *Resolver) Resolve(name string, env Environ) (string, error) {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return "", newError(name, ReasonInvalidName, nil)
	}

	if r.Platform.IsExplicit(name) {
		if err := r.Check.Executable(name); err != nil {
			return "", newError(name, ReasonNotExecutable, err)
		}
		return absolute(name)
	}

	searchPath, ok := SearchPath(env, r.Env)
	if !ok || searchPath == "" {
		return "", newError(name, ReasonNoSearchPath, nil)
	}

	var lastErr error
	for _, dir := range r.Dirs(searchPath) {
		candidate := filepath.Join(dir, name)
		if err := r.Check.Executable(candidate); err != nil {
			lastErr = err
			continue
		}
		return absolute(candidate)
	}
	return "", newError(name, ReasonNotFound, lastErr)
}

// Dirs splits a search path into its non-empty entries, preserving order.
func (r *Resolver) Dirs(searchPath string) []string {
	sep := r.Platform.ListSeparator
	if sep == 0 {
		sep = filepath.ListSeparator
	}
	var dirs []string
	for _, dir := range strings.Split(searchPath, string(sep)) {
		if dir == "" {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError(path, ReasonNotExecutable, err)
	}
	return abs, nil
}
