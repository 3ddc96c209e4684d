//go:build unix

package spawn

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sys/unix"
)

// maxDescriptorScan bounds the fallback scan when the descriptor table
// cannot be listed and the limit is very large or unlimited.
const maxDescriptorScan = 1 << 16

func descriptorDir() string {
	if runtime.GOOS == "linux" {
		return "/proc/self/fd"
	}
	return "/dev/fd"
}

// openDescriptors lists this process's descriptors. When the table cannot
// be listed it returns every number below the descriptor limit.
func openDescriptors() ([]int, error) {
	entries, err := os.ReadDir(descriptorDir())
	if err == nil {
		fds := make([]int, 0, len(entries))
		for _, e := range entries {
			fd, err := strconv.Atoi(e.Name())
			if err != nil {
				continue
			}
			fds = append(fds, fd)
		}
		return fds, nil
	}

	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return nil, fmt.Errorf("getrlimit: %w", err)
	}
	limit := lim.Cur
	if limit > maxDescriptorScan {
		limit = maxDescriptorScan
	}
	fds := make([]int, 0, limit)
	for fd := 0; fd < int(limit); fd++ {
		fds = append(fds, fd)
	}
	return fds, nil
}

// sealInherited marks every inheritable descriptor above the standard three
// close-on-exec, so a child only keeps the streams it is given explicitly.
// It returns the descriptors it changed, including on error, so the caller
// can hand them to unsealInherited once the child has started.
func sealInherited() ([]int, error) {
	fds, err := openDescriptors()
	if err != nil {
		return nil, err
	}
	var sealed []int
	for _, fd := range fds {
		if fd <= 2 {
			continue
		}
		flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
		if err != nil {
			// not open, or the listing's own directory handle
			continue
		}
		if flags&unix.FD_CLOEXEC != 0 {
			continue
		}
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags|unix.FD_CLOEXEC); err != nil {
			return sealed, fmt.Errorf("fcntl(%d, F_SETFD): %w", fd, err)
		}
		sealed = append(sealed, fd)
	}
	return sealed, nil
}

// unsealInherited clears close-on-exec on fds, undoing sealInherited.
func unsealInherited(fds []int) error {
	var errs []error
	for _, fd := range fds {
		flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
		if err == nil {
			_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags&^unix.FD_CLOEXEC)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("fcntl(%d, F_SETFD): %w", fd, err))
		}
	}
	return errors.Join(errs...)
}
