//go:build !unix

package pathsearch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPlatform returns Windows conventions: ';' separated search paths,
// and names that are absolute, start with '.', or contain a separator are
// treated as paths.
func DefaultPlatform() Platform {
	return Platform{
		ListSeparator: ';',
		IsExplicit: func(name string) bool {
			return filepath.IsAbs(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `\/`)
		},
	}
}

// RealChecker accepts regular files whose extension is listed in PATHEXT.
type RealChecker struct{}

func (c *RealChecker) Executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".com;.exe;.bat;.cmd"
	}
	for _, e := range strings.Split(strings.ToLower(exts), ";") {
		if e != "" && e == ext {
			return nil
		}
	}
	return fmt.Errorf("%s: not an executable extension", path)
}
