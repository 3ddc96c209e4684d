package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/spawn/pkg/output"
	"github.com/vertti/spawn/pkg/pathsearch"
)

var (
	whichEnv  []string
	whichJSON bool
)

// ErrResolveFailed is returned when which cannot resolve its argument.
var ErrResolveFailed = errors.New("resolve failed")

var whichCmd = &cobra.Command{
	Use:   "which <name>",
	Short: "Show which file a program name resolves to",
	Long: "Resolve a program name the way run does. Names starting with '/' or '.'\n" +
		"are checked as paths; anything else is searched for in PATH. With --env,\n" +
		"PATH is taken from the given entries instead of the current environment.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWhich,
}

func init() {
	whichCmd.Flags().StringArrayVar(&whichEnv, "env", nil, "environment entry KEY=VALUE (repeatable)")
	whichCmd.Flags().BoolVar(&whichJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(whichCmd)
}

type whichResult struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runWhich(cmd *cobra.Command, args []string) error {
	if err := validateEnv(whichEnv); err != nil {
		return err
	}

	name := args[0]
	path, err := app.resolver.Resolve(name, whichEnv)
	res := whichResult{Name: name, Path: path, OK: err == nil}
	if err != nil {
		res.Error = err.Error()
		var perr *pathsearch.Error
		if errors.As(err, &perr) {
			res.Reason = string(perr.Reason)
		}
	}

	if whichJSON {
		data, jerr := json.Marshal(res)
		if jerr != nil {
			return jerr
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		report := output.Report{Name: "which: " + name, OK: res.OK}
		if res.OK {
			report.Details = []string{"path: " + path}
		} else {
			report.Details = []string{"reason: " + res.Reason}
		}
		output.Print(cmd.OutOrStdout(), report)
	}

	if !res.OK {
		return ErrResolveFailed
	}
	return nil
}
