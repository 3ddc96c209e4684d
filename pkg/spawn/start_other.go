//go:build !unix

package spawn

import (
	"errors"

	"go.uber.org/zap"
)

// ErrUnsupported is returned for launches on platforms without sessions.
var ErrUnsupported = errors.New("detached launch is not supported on this platform")

func (l *Launcher) start(_ *zap.Logger, _ string, _ Request) (*launched, *Error) {
	return nil, &Error{Kind: KindProcessCreation, Op: "start", Err: ErrUnsupported}
}

func sealInherited() ([]int, error) {
	return nil, nil
}

func unsealInherited([]int) error {
	return nil
}
