package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	logLevel      string
	keepInherited bool
)

func main() {
	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	app.close()
	os.Exit(exitCode(err))
}

var rootCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Start programs as detached children wired through pipes",
	Long: "Spawn resolves a program against PATH and starts it in its own session,\n" +
		"with its standard streams connected to pipes.",
	Version:           Version,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides SPAWN_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&keepInherited, "keep-inherited", false, "let children inherit open descriptors (overrides SPAWN_KEEP_INHERITED)")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("keep-inherited") {
		cfg.KeepInherited = keepInherited
	}

	state, err := newAppState(cfg)
	if err != nil {
		return err
	}
	app.close()
	app = state
	return nil
}

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitCode maps a command error to the status the binary exits with.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
