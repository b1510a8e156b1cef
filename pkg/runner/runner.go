// Package runner executes a compiled command as a child process and
// streams its merged output back to the caller line by line.
package runner

import (
	"bufio"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// DefaultGracePeriod bounds how long Stop waits for a graceful exit
// before escalating to a forceful kill.
const DefaultGracePeriod = 5 * time.Second

// Runner spawns and supervises one child process at a time. All blocking
// I/O (reading the child's output) happens on a dedicated worker
// goroutine, never on the goroutine that requests cancellation.
type Runner struct {
	grace time.Duration

	mu     sync.Mutex
	handle *Handle
}

// New creates a runner. A non-positive grace period falls back to the
// default.
func New(grace time.Duration) *Runner {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Runner{grace: grace}
}

// Handle is the live state of one execution: the child process, the
// cancellation flag, and the accumulated output lines.
type Handle struct {
	grace time.Duration

	mu      sync.Mutex
	status  Status
	outcome Outcome
	lines   []string
	proc    *os.Process

	cancel  atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
	events  chan Event
}

// Start launches the command and begins streaming. It never blocks on
// output availability: spawn failures and stream trouble are reported
// through the callbacks, not raised here. The only synchronous failures
// are an empty command and a still-active previous run.
func (r *Runner) Start(command []string, cb Callbacks) (*Handle, error) {
	if len(command) == 0 {
		return nil, &EmptyCommandError{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle != nil && !r.handle.Status().Terminal() {
		return nil, &AlreadyRunningError{}
	}

	h := &Handle{
		grace:  r.grace,
		status: StatusRunning,
		done:   make(chan struct{}),
		events: make(chan Event, 64),
	}
	r.handle = h

	go h.dispatch(cb)
	go h.run(command)

	return h, nil
}

// Stop requests cooperative cancellation of the active run. It is safe
// to call at any time, including after the run has finished; repeated
// calls are no-ops. Errors encountered while stopping are reported via
// the error callback, never returned.
func (r *Runner) Stop() {
	r.mu.Lock()
	h := r.handle
	r.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// Running reports whether the runner currently owns an active execution.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle != nil && !r.handle.Status().Terminal()
}

// Status returns the handle's current lifecycle state.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Outcome returns the final classification. Valid once Done is closed.
func (h *Handle) Outcome() Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

// Lines returns a copy of the output accumulated so far.
func (h *Handle) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Done is closed once the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Stop sets the cancellation flag, asks the child to exit gracefully,
// and escalates to a kill if the grace period elapses. Idempotent.
func (h *Handle) Stop() {
	if !h.stopped.CompareAndSwap(false, true) {
		return
	}
	h.cancel.Store(true)

	h.mu.Lock()
	proc := h.proc
	terminal := h.status.Terminal()
	h.mu.Unlock()

	if terminal || proc == nil {
		return
	}

	// Graceful first. A signal failure usually means the process is
	// already gone; the worker will classify and report regardless.
	if err := signalGroup(proc.Pid, syscall.SIGTERM); err != nil {
		h.emitError(err)
	}

	select {
	case <-h.done:
	case <-time.After(h.grace):
		if err := signalGroup(proc.Pid, syscall.SIGKILL); err != nil {
			h.emitError(err)
		}
		<-h.done
	}
}

// signalGroup signals the child's whole process group, so compiler
// subprocesses it spawned go down with it and release the output pipe.
func signalGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig)
}

// run is the worker: it owns the child process from spawn to exit and is
// the only place blocking reads happen.
func (h *Handle) run(command []string) {
	started := time.Now()

	// stdout and stderr share one pipe so lines interleave in
	// wall-clock order, matching what a terminal would show.
	pr, pw, err := os.Pipe()
	if err != nil {
		h.finish(Outcome{Status: StatusFailed, ExitCode: -1, Err: err, Duration: time.Since(started)})
		return
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	// The child leads its own process group so Stop can take down the
	// whole compiler tree, not just the immediate child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		spawnErr := &SpawnError{Command: command[0], Err: err}
		h.emitError(spawnErr)
		h.finish(Outcome{Status: StatusFailed, ExitCode: -1, Err: spawnErr, Duration: time.Since(started)})
		return
	}

	// The parent's write end must close so the scanner sees EOF when
	// the child exits.
	pw.Close()

	h.mu.Lock()
	h.proc = cmd.Process
	h.mu.Unlock()

	// Stop may have raced the spawn; honor a cancellation that arrived
	// before the process reference was published.
	if h.cancel.Load() {
		_ = signalGroup(cmd.Process.Pid, syscall.SIGTERM)
	}

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Cooperative cancellation at the line boundary: once the
		// flag is set we stop consuming and let the stop sequence
		// bring the child down.
		if h.cancel.Load() {
			break
		}
		line := scanner.Text()
		h.mu.Lock()
		h.lines = append(h.lines, line)
		h.mu.Unlock()
		h.events <- Event{Kind: EventLine, Line: line}
	}
	if err := scanner.Err(); err != nil && !h.cancel.Load() {
		h.emitError(err)
	}
	pr.Close()

	waitErr := cmd.Wait()
	duration := time.Since(started)

	outcome := Outcome{Duration: duration}
	switch {
	case h.cancel.Load():
		outcome.Status = StatusTerminated
		outcome.ExitCode = exitCode(cmd, waitErr)
	case waitErr == nil:
		outcome.Status = StatusCompleted
	default:
		outcome.Status = StatusFailed
		outcome.ExitCode = exitCode(cmd, waitErr)
		outcome.Err = waitErr
	}

	h.finish(outcome)
}

// finish records the terminal state and emits the exit event exactly
// once.
func (h *Handle) finish(outcome Outcome) {
	h.mu.Lock()
	if h.status.Terminal() {
		h.mu.Unlock()
		return
	}
	h.status = outcome.Status
	h.outcome = outcome
	h.mu.Unlock()

	close(h.done)
	h.events <- Event{Kind: EventExit, Outcome: &outcome}
}

// emitError never blocks and may race the terminal event; stop-time
// errors are advisory and droppable, lines and the exit are not.
func (h *Handle) emitError(err error) {
	select {
	case h.events <- Event{Kind: EventError, Err: err}:
	default:
	}
}

// dispatch delivers events to the callbacks in order, on a single
// goroutine, until the terminal exit event arrives.
func (h *Handle) dispatch(cb Callbacks) {
	for event := range h.events {
		switch event.Kind {
		case EventLine:
			if cb.OnOutput != nil {
				cb.OnOutput(event.Line)
			}
		case EventError:
			if cb.OnError != nil {
				cb.OnError(event.Err)
			}
		case EventExit:
			if cb.OnExit != nil {
				cb.OnExit(*event.Outcome)
			}
			return
		}
	}
}

// exitCode extracts the child's exit code from Wait's result.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
