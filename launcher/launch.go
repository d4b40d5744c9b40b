package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"medviz/anatomy"
	"medviz/log"
)

// Status is the lifecycle state of a launch.
type Status int

const (
	// Running means the feature script process is alive.
	Running Status = iota
	// Exited means the process finished with exit code zero.
	Exited
	// Failed means the process could not run or exited non-zero.
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MissingDataError reports that a category's imaging file is absent. It
// is surfaced to the user at launch time and is never fatal to the shell.
type MissingDataError struct {
	Category anatomy.Category
	Path     string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("imaging file for %s not found: %s", e.Category, e.Path)
}

// outputTailLimit bounds how much script output is kept for the output
// pane. Old output is discarded from the front.
const outputTailLimit = 64 * 1024

// Options configure a launch.
type Options struct {
	// Interpreter runs the script, e.g. "python3".
	Interpreter string
	Script      anatomy.Script
	Category    anatomy.Category
	// DataPath is the imaging file handed to the script as its only
	// argument. Empty means the script is invoked with no arguments.
	DataPath string
}

// Launch is one invocation of a feature script. The script runs under a
// pty so toolkit code that probes for a terminal behaves; its combined
// output is captured for the output pane. A launch is fire-and-forget:
// completion is observed via Wait, never awaited by the shell's event
// handling.
type Launch struct {
	ID        string
	Script    anatomy.Script
	Category  anatomy.Category
	DataPath  string
	StartedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File
	out  *outputBuffer
	done chan struct{}

	mu       sync.Mutex
	status   Status
	exitCode int
	endedAt  time.Time
	waitErr  error
}

// Start verifies the script and its imaging file exist, then spawns the
// script process. Verification failures return before anything is
// spawned; they are the caller's non-fatal notifications.
func Start(opts Options) (*Launch, error) {
	if _, err := os.Stat(opts.Script.Path); err != nil {
		return nil, fmt.Errorf("feature script not found: %s", opts.Script.Path)
	}
	if opts.DataPath != "" {
		if _, err := os.Stat(opts.DataPath); err != nil {
			return nil, &MissingDataError{Category: opts.Category, Path: opts.DataPath}
		}
	}

	args := []string{opts.Script.Path}
	if opts.DataPath != "" {
		args = append(args, opts.DataPath)
	}

	cmd := exec.Command(opts.Interpreter, args...)
	cmd.Dir = filepath.Dir(opts.Script.Path)

	l := &Launch{
		ID:        launchID(opts),
		Script:    opts.Script,
		Category:  opts.Category,
		DataPath:  opts.DataPath,
		StartedAt: time.Now(),
		cmd:       cmd,
		out:       newOutputBuffer(outputTailLimit),
		done:      make(chan struct{}),
		status:    Running,
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", opts.Script.Name, err)
	}
	l.ptmx = ptmx

	log.LogForLaunch(l.ID, "info", "started %s %s", opts.Interpreter, strings.Join(args, " "))

	go l.reap()

	return l, nil
}

// launchID builds a stable, filename-safe identifier for logging and the
// launch history.
func launchID(opts Options) string {
	base := strings.TrimSuffix(opts.Script.Name, filepath.Ext(opts.Script.Name))
	return fmt.Sprintf("%s-%s-%d", opts.Category.Info().Code, base, time.Now().UnixNano())
}

// reap drains the pty into the output buffer, then collects the exit
// status. Runs on its own goroutine for the lifetime of the process.
func (l *Launch) reap() {
	// The pty read returns EIO when the child closes its side; that is
	// the normal end-of-output signal, not an error worth reporting.
	_, _ = io.Copy(l.out, l.ptmx)
	_ = l.ptmx.Close()

	err := l.cmd.Wait()

	l.mu.Lock()
	l.endedAt = time.Now()
	l.waitErr = err
	if err != nil {
		l.status = Failed
		if exitErr, ok := err.(*exec.ExitError); ok {
			l.exitCode = exitErr.ExitCode()
		} else {
			l.exitCode = -1
		}
	} else {
		l.status = Exited
		l.exitCode = 0
	}
	status := l.status
	code := l.exitCode
	l.mu.Unlock()

	switch status {
	case Exited:
		log.LogForLaunch(l.ID, "info", "script exited cleanly")
	default:
		log.LogForLaunch(l.ID, "warning", "script failed with exit code %d: %v", code, err)
	}

	close(l.done)
}

// Wait returns a channel closed once the script process has been reaped.
func (l *Launch) Wait() <-chan struct{} {
	return l.done
}

// Status returns the current lifecycle state.
func (l *Launch) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// ExitCode returns the script's exit code; meaningful once the launch is
// no longer Running.
func (l *Launch) ExitCode() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exitCode
}

// EndedAt returns when the process was reaped; zero while Running.
func (l *Launch) EndedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.endedAt
}

// Err returns the wait error for a Failed launch, nil otherwise.
func (l *Launch) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waitErr
}

// Output returns the captured tail of the script's combined output.
func (l *Launch) Output() string {
	return l.out.String()
}

// Command returns the human-readable command line for this launch, as
// offered to the clipboard.
func (l *Launch) Command() string {
	return strings.Join(l.cmd.Args, " ")
}

// Kill asks the script's process group to terminate. The launch still
// completes through reap; Kill only delivers the signal.
func (l *Launch) Kill() error {
	l.mu.Lock()
	running := l.status == Running
	l.mu.Unlock()
	if !running {
		return nil
	}

	if l.cmd.Process == nil {
		return fmt.Errorf("launch %s has no process", l.ID)
	}

	// pty.Start puts the child in its own session, so the negative pid
	// addresses the whole process group.
	if err := unix.Kill(-l.cmd.Process.Pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal %s: %w", l.ID, err)
	}
	log.LogForLaunch(l.ID, "info", "sent SIGTERM")
	return nil
}

// outputBuffer is a bounded tail buffer: writes always succeed, old
// bytes fall off the front once the limit is exceeded.
type outputBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newOutputBuffer(max int) *outputBuffer {
	return &outputBuffer{max: max}
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if len(b.buf) > b.max {
		b.buf = b.buf[len(b.buf)-b.max:]
	}
	return len(p), nil
}

func (b *outputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
