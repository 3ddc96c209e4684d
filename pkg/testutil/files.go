// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteScript creates a shell script named name in dir with the given body
// and permission bits, and returns its path.
func WriteScript(t testing.TB, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o600))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

// TrueScript creates an executable script that exits 0.
func TrueScript(t testing.TB, dir, name string) string {
	t.Helper()
	return WriteScript(t, dir, name, "exit 0", 0o755)
}
