package runner

import "fmt"

// AlreadyRunningError is returned by Start when the runner still owns an
// active execution. A runner handles at most one process at a time; this
// is a deliberate simplification, not a job queue.
type AlreadyRunningError struct{}

func (e *AlreadyRunningError) Error() string {
	return "a build is already running"
}

// EmptyCommandError is returned by Start when given no argv to execute.
type EmptyCommandError struct{}

func (e *EmptyCommandError) Error() string {
	return "cannot start an empty command"
}

// SpawnError wraps the OS-level reason a child process failed to start.
// Filesystem races (a file deleted between validation and execution)
// surface here with the underlying cause rather than being masked.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
