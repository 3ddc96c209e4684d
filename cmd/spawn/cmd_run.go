package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertti/spawn/pkg/exec"
	"github.com/vertti/spawn/pkg/output"
	"github.com/vertti/spawn/pkg/requestfile"
	"github.com/vertti/spawn/pkg/spawn"
)

var (
	runEnv     []string
	runDir     string
	runFile    string
	runReplace bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- program args...]",
	Short: "Start a program in its own session and relay its standard streams",
	Long: "Start a program detached into a new session and process group, with its\n" +
		"standard streams connected through pipes. Without a program, the request is\n" +
		"read from --file or from the nearest .spawn.yaml/.spawn.json.\n\n" +
		"The exit status is the child's, 128+N if it was killed by signal N, or 127\n" +
		"if it could not be started.",
	SilenceUsage: true,
	RunE:         runRun,
}

// executor performs --replace. Tests swap it out.
var executor exec.Executor = &exec.RealExecutor{}

func init() {
	runCmd.Flags().StringArrayVar(&runEnv, "env", nil, "environment entry KEY=VALUE (repeatable); replaces the inherited environment")
	runCmd.Flags().StringVar(&runDir, "dir", "", "working directory for the program")
	runCmd.Flags().StringVar(&runFile, "file", "", "path to a request file (default: search up from current directory)")
	runCmd.Flags().BoolVar(&runReplace, "replace", false, "replace this process with the program instead of starting a child")
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

	if runReplace {
		if req.Dir != "" {
			if err := os.Chdir(req.Dir); err != nil {
				return fmt.Errorf("failed to change directory: %w", err)
			}
		}
		return executor.Exec(req.Argv[0], req.Argv[1:], req.Env)
	}

	res := app.launcher.Launch(req)
	if !res.OK() {
		output.Print(cmd.ErrOrStderr(), output.Report{
			Name:    "run: " + req.Program(),
			Details: []string{"reason: " + res.ErrorMessage()},
		})
		return &exitError{code: spawn.ExitNotRunnable}
	}

	code, err := relay(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), &res, app.logger)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func buildRequest(cmd *cobra.Command, args []string) (spawn.Request, error) {
	if err := validateEnv(runEnv); err != nil {
		return spawn.Request{}, err
	}
	var program string
	if len(args) > 0 {
		program = args[0]
	}
	if err := requireAtMostOne(
		flagValue{"--file", runFile},
		flagValue{"program", program},
	); err != nil {
		return spawn.Request{}, err
	}

	if len(args) > 0 {
		return spawn.Request{Argv: args, Env: runEnv, Dir: runDir}, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return spawn.Request{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := requestfile.FindFile(wd, runFile)
	if err != nil {
		return spawn.Request{}, err
	}
	req, err := requestfile.ParseFile(path)
	if err != nil {
		return spawn.Request{}, err
	}
	if cmd.Flags().Changed("env") {
		req.Env = runEnv
	}
	if cmd.Flags().Changed("dir") {
		req.Dir = runDir
	}
	return req, nil
}

// outputGrace is how long relay keeps copying output after the child has
// exited. Background processes left in the child's session may hold the
// pipes open indefinitely.
var outputGrace = 2 * time.Second

// relay pumps in to the child's stdin and the child's output to out and
// errOut until the child exits, forwarding termination signals to its
// process group. It returns the child's exit status.
//
// Once the child exits its stdin pipe is closed; a read already blocked on
// in is abandoned and ends at the next input or when the process exits.
// Output still open outputGrace after the exit is cut off.
func relay(in io.Reader, out, errOut io.Writer, res *spawn.Result, log *zap.Logger) (int, error) {
	stop := forwardSignals(res.Pid)
	defer stop()

	log = log.With(zap.String("launch_id", res.ID), zap.Int("pid", res.Pid))

	stdin := res.Stdin
	res.Stdin = nil
	var stdinOnce sync.Once
	closeStdin := func() { stdinOnce.Do(func() { _ = stdin.Close() }) }
	go func() {
		if _, err := io.Copy(stdin, in); err != nil {
			log.Debug("stdin relay stopped", zap.Error(err))
		}
		closeStdin()
	}()

	var wg sync.WaitGroup
	for _, p := range []struct {
		dst io.Writer
		src *os.File
	}{{out, res.Stdout}, {errOut, res.Stderr}} {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := io.Copy(p.dst, p.src); err != nil {
				log.Debug("output relay stopped", zap.Error(err))
			}
		}()
	}
	copied := make(chan struct{})
	go func() {
		wg.Wait()
		close(copied)
	}()

	state, err := res.Process.Wait()
	closeStdin()

	select {
	case <-copied:
	case <-time.After(outputGrace):
		log.Debug("output still open after exit, closing", zap.Duration("grace", outputGrace))
		_ = res.Close()
		<-copied
	}
	_ = res.Close()

	if err != nil {
		return 0, fmt.Errorf("failed to wait for pid %d: %w", res.Pid, err)
	}
	return exitStatus(state), nil
}
