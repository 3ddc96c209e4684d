package pathsearch

import (
	"os"
	"strings"
)

// PathKey is the environment variable holding the search path.
const PathKey = "PATH"

// Environ is an ordered list of KEY=VALUE entries.
type Environ []string

// Lookup returns the value of the first entry whose key is exactly key.
func (e Environ) Lookup(key string) (string, bool) {
	for _, kv := range e {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

// EnvGetter reads variables from the environment the resolver runs in.
type EnvGetter interface {
	LookupEnv(key string) (string, bool)
}

// RealEnvGetter reads the process environment.
type RealEnvGetter struct{}

func (r *RealEnvGetter) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// SearchPath picks the search path for a launch. An explicit environment
// is authoritative; only an empty one falls back to the inherited PATH.
func SearchPath(env Environ, getter EnvGetter) (string, bool) {
	if len(env) > 0 {
		return env.Lookup(PathKey)
	}
	if getter == nil {
		return "", false
	}
	return getter.LookupEnv(PathKey)
}
