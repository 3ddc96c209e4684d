//go:build unix

package spawn

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// sealMu covers the window between sealing descriptors and restoring them.
// Descriptor flags belong to the whole process, so overlapping launches
// would otherwise restore flags another launch still relies on.
var sealMu sync.Mutex

// start creates the pipes and the child. The child runs in a new session,
// which also makes it the leader of a new process group, so it has no
// controlling terminal and is outside the launcher's job control.
func (l *Launcher) start(log *zap.Logger, path string, req Request) (*launched, *Error) {
	var pipes pipeSet
	defer func() {
		if err := pipes.closeAll(); err != nil {
			log.Debug("closing pipe ends", zap.Error(err))
		}
	}()

	if err := pipes.open(l.pipe); err != nil {
		return nil, &Error{Kind: KindResourceAllocation, Op: "pipe", Err: err}
	}

	if !l.keepInherited {
		sealMu.Lock()
		defer sealMu.Unlock()
		sealed, err := l.seal()
		if err != nil {
			log.Warn("could not mark inherited descriptors close-on-exec", zap.Error(err))
		}
		defer func() {
			if err := l.unseal(sealed); err != nil {
				log.Warn("could not restore inherited descriptors", zap.Error(err))
			}
		}()
	}

	var env []string
	if len(req.Env) > 0 {
		env = req.Env
	}

	attr := &os.ProcAttr{
		Dir:   workingDir(log, req.Dir),
		Env:   env,
		Files: pipes.childEnds(),
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}

	proc, err := l.startProcess(path, req.Argv, attr)
	if err != nil {
		return nil, &Error{Kind: KindProcessCreation, Op: "start", Err: err}
	}

	if err := pipes.closeChildEnds(); err != nil {
		log.Warn("closing child pipe ends", zap.Int("pid", proc.Pid), zap.Error(err))
	}
	stdin, stdout, stderr := pipes.releaseParentEnds()
	return &launched{process: proc, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// workingDir returns dir if the child will be able to enter it, or "" so
// the child keeps the launcher's directory.
func workingDir(log *zap.Logger, dir string) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s: not a directory", dir)
	}
	if err == nil {
		if aerr := unix.Access(dir, unix.X_OK); aerr != nil {
			err = &os.PathError{Op: "access", Path: dir, Err: aerr}
		}
	}
	if err != nil {
		log.Warn("working directory unavailable, keeping inherited directory",
			zap.String("dir", dir), zap.Error(err))
		return ""
	}
	return dir
}
