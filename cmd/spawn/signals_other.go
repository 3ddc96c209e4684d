//go:build !unix

package main

import "os"

func forwardSignals(int) (stop func()) {
	return func() {}
}

func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}
