package spawn

import (
	"errors"
	"os"
)

// Pipe indexes, named after the child stream each pipe becomes.
const (
	stdinPipe = iota
	stdoutPipe
	stderrPipe
)

type pipePair struct {
	r, w *os.File
}

// pipeSet owns up to six pipe ends. Ends are set to nil once closed or
// handed off, so closeAll is safe to defer on every path.
type pipeSet [3]pipePair

func (s *pipeSet) open(pipe func() (r, w *os.File, err error)) error {
	for i := range s {
		r, w, err := pipe()
		if err != nil {
			return err
		}
		s[i] = pipePair{r: r, w: w}
	}
	return nil
}

// childEnds returns the ends the child uses as fds 0, 1 and 2.
func (s *pipeSet) childEnds() []*os.File {
	return []*os.File{s[stdinPipe].r, s[stdoutPipe].w, s[stderrPipe].w}
}

// closeChildEnds drops the launcher's copies of the child's ends.
func (s *pipeSet) closeChildEnds() error {
	return errors.Join(
		closeEnd(&s[stdinPipe].r),
		closeEnd(&s[stdoutPipe].w),
		closeEnd(&s[stderrPipe].w),
	)
}

// releaseParentEnds hands the caller's ends over; the set no longer owns them.
func (s *pipeSet) releaseParentEnds() (stdin, stdout, stderr *os.File) {
	stdin, s[stdinPipe].w = s[stdinPipe].w, nil
	stdout, s[stdoutPipe].r = s[stdoutPipe].r, nil
	stderr, s[stderrPipe].r = s[stderrPipe].r, nil
	return stdin, stdout, stderr
}

func (s *pipeSet) closeAll() error {
	var errs []error
	for i := range s {
		errs = append(errs, closeEnd(&s[i].r), closeEnd(&s[i].w))
	}
	return errors.Join(errs...)
}

func closeEnd(f **os.File) error {
	if *f == nil {
		return nil
	}
	err := (*f).Close()
	*f = nil
	return err
}
