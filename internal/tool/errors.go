package tool

import "errors"

var (
	// ErrLaunch means the tool binary is missing or could not be executed.
	ErrLaunch = errors.New("process launch failed")

	// ErrRuntime means the tool exited non-zero or printed a failure line.
	ErrRuntime = errors.New("process failed")
)
