package runner

import "time"

// Status is the lifecycle state of one execution.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusTerminated Status = "terminated"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTerminated:
		return true
	}
	return false
}

// Outcome is the single, final classification of a run. Exactly one
// outcome is reported exactly once per run: completed (zero exit code),
// failed (non-zero exit code or spawn failure), or terminated (stopped
// by caller request).
type Outcome struct {
	Status   Status
	ExitCode int
	Err      error
	Duration time.Duration
}

// EventKind discriminates the messages flowing from the run's worker
// goroutine to the callback dispatcher.
type EventKind int

const (
	// EventLine carries one output line, in the order the child
	// process produced it.
	EventLine EventKind = iota
	// EventError carries a non-fatal runtime error (stream failure,
	// stop-time trouble). It never terminates the stream by itself.
	EventError
	// EventExit is the terminal message; no events follow it.
	EventExit
)

// Event is one message from the worker. Lines, errors, and the final
// exit travel through the same ordered channel so the consumer observes
// them in the order they happened.
type Event struct {
	Kind    EventKind
	Line    string
	Err     error
	Outcome *Outcome
}

// Callbacks receive the run's events. Nil members are skipped. All
// callbacks for one run are invoked from a single dispatcher goroutine,
// in event order.
type Callbacks struct {
	OnOutput func(line string)
	OnError  func(err error)
	OnExit   func(outcome Outcome)
}
