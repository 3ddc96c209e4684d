// Package spawn starts programs as detached child processes whose standard
// streams are connected to the caller through pipes.
//
// A launch either yields a positive process id together with the parent
// ends of three pipes (stdin, stdout, stderr), or a failure carrying a
// human-readable message. Launch failures are ordinary results: nothing in
// this package panics or exits on behalf of the caller. Once a process is
// started the launcher forgets about it; waiting, signalling and reaping are
// the caller's business.
package spawn

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertti/spawn/pkg/pathsearch"
)

// ExitNotRunnable is the exit status reserved for "could not become the
// requested program", matching the shell convention. Launch itself never
// produces a child that exits with it: the runtime reports a failed exec
// synchronously, so Launch returns a KindProcessCreation failure with
// Pid -1 instead. The spawn CLI exits with ExitNotRunnable in that case.
const ExitNotRunnable = 127

// Request describes one launch. Argv[0] names the program. An empty Env
// means the child inherits the caller's environment.
type Request struct {
	Argv []string
	Env  []string
	Dir  string
}

// Program returns Argv[0], or "" when Argv is empty.
func (r Request) Program() string {
	if len(r.Argv) == 0 {
		return ""
	}
	return r.Argv[0]
}

// Kind classifies launch failures.
type Kind string

const (
	KindResolution         Kind = "resolution"
	KindResourceAllocation Kind = "resource_allocation"
	KindProcessCreation    Kind = "process_creation"
)

// Error describes a failed launch.
type Error struct {
	Kind    Kind
	Op      string // failing operation, e.g. "pipe" or "start"
	Program string
	Err     error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("launch %q: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("launch %q: %s: %v", e.Program, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the outcome of a launch. On success Pid is positive and the
// three channels are open; the caller owns them and must close them. On
// failure Pid is -1, Err is set and the channels are nil.
type Result struct {
	ID      string
	Pid     int
	Stdin   *os.File // write end, becomes the child's standard input
	Stdout  *os.File
	Stderr  *os.File
	Process *os.Process
	Err     *Error
}

// OK reports whether the launch produced a running process.
func (r Result) OK() bool {
	return r.Err == nil && r.Pid > 0
}

// ErrorMessage returns the failure description, or "" on success.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Close closes whichever channels are still set.
func (r *Result) Close() error {
	var errs []error
	for _, f := range []**os.File{&r.Stdin, &r.Stdout, &r.Stderr} {
		if *f == nil {
			continue
		}
		if err := (*f).Close(); err != nil {
			errs = append(errs, err)
		}
		*f = nil
	}
	return errors.Join(errs...)
}

// Options configures a Launcher. The zero value is usable.
type Options struct {
	Logger   *zap.Logger // diagnostics; defaults to a no-op logger
	Metrics  *Metrics
	Resolver *pathsearch.Resolver

	// KeepInherited lets the child inherit every descriptor this process
	// has open without close-on-exec. By default those descriptors are
	// marked close-on-exec while the child starts and restored afterwards.
	KeepInherited bool
}

// Launcher starts processes. It keeps no state between launches and is
// safe for concurrent use.
type Launcher struct {
	logger        *zap.Logger
	metrics       *Metrics
	resolver      *pathsearch.Resolver
	keepInherited bool

	pipe         func() (r, w *os.File, err error)
	startProcess func(name string, argv []string, attr *os.ProcAttr) (*os.Process, error)
	seal         func() ([]int, error)
	unseal       func([]int) error
}

// New returns a Launcher configured by opts.
func New(opts Options) *Launcher {
	l := &Launcher{
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		resolver:      opts.Resolver,
		keepInherited: opts.KeepInherited,
		pipe:          os.Pipe,
		startProcess:  os.StartProcess,
		seal:          sealInherited,
		unseal:        unsealInherited,
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.resolver == nil {
		l.resolver = pathsearch.New()
	}
	return l
}

// Launch starts req with a default Launcher.
func Launch(req Request) Result {
	return New(Options{}).Launch(req)
}

// Launch resolves the program, wires its standard streams to fresh pipes and
// starts it in a new session. It returns once the process exists; it does
// not wait for the program to do anything.
func (l *Launcher) Launch(req Request) Result {
	started := time.Now()
	res := Result{ID: uuid.NewString(), Pid: -1}
	program := req.Program()
	log := l.logger.With(zap.String("launch_id", res.ID), zap.String("program", program))

	log.Debug("launching",
		zap.Strings("argv", req.Argv),
		zap.Int("env_entries", len(req.Env)),
		zap.String("dir", req.Dir))

	if len(req.Argv) == 0 {
		return l.fail(log, res, started, &Error{
			Kind: KindResolution,
			Err:  &pathsearch.Error{Reason: pathsearch.ReasonInvalidName},
		})
	}

	path, err := l.resolver.Resolve(program, req.Env)
	if err != nil {
		return l.fail(log, res, started, &Error{Kind: KindResolution, Program: program, Err: err})
	}

	child, lerr := l.start(log, path, req)
	if lerr != nil {
		lerr.Program = program
		return l.fail(log, res, started, lerr)
	}

	res.Pid = child.process.Pid
	res.Process = child.process
	res.Stdin, res.Stdout, res.Stderr = child.stdin, child.stdout, child.stderr

	log.Info("launched", zap.Int("pid", res.Pid), zap.String("path", path))
	l.metrics.observe(outcomeSuccess, time.Since(started))
	return res
}

// launched holds what start hands back to Launch on success.
type launched struct {
	process *os.Process
	stdin   *os.File
	stdout  *os.File
	stderr  *os.File
}

func (l *Launcher) fail(log *zap.Logger, res Result, since time.Time, err *Error) Result {
	log.Warn("launch failed",
		zap.String("kind", string(err.Kind)),
		zap.String("op", err.Op),
		zap.Error(err.Err))
	l.metrics.observe(string(err.Kind), time.Since(since))
	res.Pid = -1
	res.Err = err
	return res
}
