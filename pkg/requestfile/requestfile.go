// Package requestfile loads launch requests from .spawn.yaml or .spawn.json
// files.
package requestfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/vertti/spawn/pkg/spawn"
)

// Names are the file names FindFile looks for, in order of preference.
var Names = []string{".spawn.yaml", ".spawn.yml", ".spawn.json"}

func FindFile(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("request file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		for _, name := range Names {
			candidate := filepath.Join(currentDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		if currentDir == homeDir {
			break
		}

		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.New("no .spawn.yaml or .spawn.json file found")
}

// ParseFile reads a request. JSON files are recognised by extension;
// everything else is parsed as YAML. Keys: argv (list), env (list of
// KEY=VALUE or a map), dir.
func ParseFile(path string) (spawn.Request, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading a user-named request file
	if err != nil {
		return spawn.Request{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var req spawn.Request
	if strings.EqualFold(filepath.Ext(path), ".json") {
		req, err = parseJSON(string(data))
	} else {
		req, err = parseYAML(data)
	}
	if err != nil {
		return spawn.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(req.Argv) == 0 {
		return spawn.Request{}, fmt.Errorf("%s: argv is required", path)
	}
	return req, nil
}

func parseJSON(doc string) (spawn.Request, error) {
	if !gjson.Valid(doc) {
		return spawn.Request{}, errors.New("invalid JSON")
	}

	var req spawn.Request
	argv := gjson.Get(doc, "argv")
	if argv.Exists() && !argv.IsArray() {
		return spawn.Request{}, errors.New("argv must be a list")
	}
	for _, a := range argv.Array() {
		req.Argv = append(req.Argv, a.String())
	}

	env := gjson.Get(doc, "env")
	switch {
	case !env.Exists():
	case env.IsArray():
		for _, e := range env.Array() {
			req.Env = append(req.Env, e.String())
		}
	case env.IsObject():
		vars := map[string]string{}
		env.ForEach(func(key, value gjson.Result) bool {
			vars[key.String()] = value.String()
			return true
		})
		req.Env = sortedEnv(vars)
	default:
		return spawn.Request{}, errors.New("env must be a list or a map")
	}

	req.Dir = gjson.Get(doc, "dir").String()
	return req, nil
}

type yamlRequest struct {
	Argv []string  `yaml:"argv"`
	Env  yaml.Node `yaml:"env"`
	Dir  string    `yaml:"dir"`
}

func parseYAML(data []byte) (spawn.Request, error) {
	var doc yamlRequest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return spawn.Request{}, err
	}

	req := spawn.Request{Argv: doc.Argv, Dir: doc.Dir}
	switch {
	case doc.Env.Kind == 0, doc.Env.Kind == yaml.ScalarNode && doc.Env.Tag == "!!null":
	case doc.Env.Kind == yaml.SequenceNode:
		if err := doc.Env.Decode(&req.Env); err != nil {
			return spawn.Request{}, fmt.Errorf("env: %w", err)
		}
	case doc.Env.Kind == yaml.MappingNode:
		vars := map[string]string{}
		if err := doc.Env.Decode(&vars); err != nil {
			return spawn.Request{}, fmt.Errorf("env: %w", err)
		}
		req.Env = sortedEnv(vars)
	default:
		return spawn.Request{}, errors.New("env must be a list or a map")
	}
	return req, nil
}

func sortedEnv(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}
