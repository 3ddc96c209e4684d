package main

import (
	"fmt"
	"strings"
)

// validateEnv checks that every --env entry has the form KEY=VALUE with a
// non-empty key.
func validateEnv(entries []string) error {
	for _, e := range entries {
		key, _, found := strings.Cut(e, "=")
		if !found {
			return fmt.Errorf("invalid --env %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return fmt.Errorf("invalid --env %q: empty key", e)
		}
	}
	return nil
}

// flagValue represents a flag name and its current value for validation.
type flagValue struct {
	name  string
	value string
}

// requireAtMostOne returns an error if more than one of the given flags is set.
func requireAtMostOne(flags ...flagValue) error {
	var set []string
	for _, f := range flags {
		if f.value != "" {
			set = append(set, f.name)
		}
	}
	if len(set) > 1 {
		return fmt.Errorf("only one of %s can be specified", strings.Join(set, ", "))
	}
	return nil
}
