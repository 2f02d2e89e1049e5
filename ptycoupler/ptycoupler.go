// Package ptycoupler spawns a child process attached to a pseudo-terminal and
// ferries bytes between it and a [coreterm.Terminal], propagating resize
// events and reaping the child's exit status.
//
// It wraps github.com/creack/pty, the same library
// javanhut-RavenTerminal's shell.PtySession and the teacher module's go.mod
// already depend on.
package ptycoupler

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Size is a terminal's row/column dimensions, mirroring pty.Winsize without
// exposing that type directly to callers.
type Size struct {
	Rows uint16
	Cols uint16
}

// Options configures a new Coupler.
type Options struct {
	// Command is the child process to run. Its Stdin/Stdout/Stderr are
	// overwritten to attach to the PTY slave.
	Command *exec.Cmd
	// Rows and Cols set the initial PTY window size. Left zero, Rows
	// defaults to 24 and Cols to 80.
	Rows, Cols uint16
}

// Coupler owns a PTY master file descriptor and the child process attached
// to its slave side. It implements io.ReadWriter: Write sends bytes to the
// child's stdin, Read receives the child's combined stdout/stderr.
type Coupler struct {
	cmd  *exec.Cmd
	ptmx *os.File

	mu     sync.Mutex
	closed bool

	done    chan struct{}
	waitErr error
}

// Start spawns opts.Command on a new PTY sized to opts.Rows x opts.Cols and
// begins reaping its exit in the background. The returned Coupler is ready
// for concurrent Read/Write/Resize calls.
func Start(opts Options) (*Coupler, error) {
	if opts.Command == nil {
		return nil, errors.New("ptycoupler: Options.Command is required")
	}
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = 24
	}
	if cols == 0 {
		cols = 80
	}

	ptmx, err := pty.StartWithSize(opts.Command, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, err
	}

	c := &Coupler{
		cmd:  opts.Command,
		ptmx: ptmx,
		done: make(chan struct{}),
	}

	go func() {
		c.waitErr = c.cmd.Wait()
		close(c.done)
	}()

	return c, nil
}

// Read reads bytes the child process wrote to its stdout/stderr. Callers
// typically loop Read into a [coreterm.Terminal]'s Write (it implements
// io.Writer) to drive terminal state from the child's output.
func (c *Coupler) Read(p []byte) (int, error) {
	return c.ptmx.Read(p)
}

// Write sends bytes to the child process's stdin, typically the output of
// an inputenc encoder.
func (c *Coupler) Write(p []byte) (int, error) {
	return c.ptmx.Write(p)
}

// Resize updates the PTY window size, which the kernel delivers to the
// child as SIGWINCH.
func (c *Coupler) Resize(size Size) error {
	rows, cols := size.Rows, size.Cols
	if rows == 0 {
		rows = 1
	}
	if cols == 0 {
		cols = 1
	}
	return pty.Setsize(c.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// Done returns a channel closed once the child process has exited and its
// status has been reaped.
func (c *Coupler) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the child process exits, returning the error (if any)
// exec.Cmd.Wait produced. Safe to call from multiple goroutines; all
// callers observe the same result once the child exits.
func (c *Coupler) Wait() error {
	<-c.done
	return c.waitErr
}

// ExitState returns the child's exit status. It must only be called after
// Done() has been closed or Wait() has returned.
func (c *Coupler) ExitState() *os.ProcessState {
	return c.cmd.ProcessState
}

// Close terminates the child process if still running and closes the PTY
// master file descriptor. It is safe to call more than once.
func (c *Coupler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.cmd.Process != nil {
		select {
		case <-c.done:
			// Already exited; nothing to kill.
		default:
			_ = c.cmd.Process.Kill()
		}
	}
	return c.ptmx.Close()
}

// Copier ferries child output from a Coupler into a terminal until either
// side returns an error or the child exits, then closes the Coupler. It
// copies in that one direction only; input reaches the child through the
// Coupler's own Write. Callers needing finer control can call Read/Write
// directly instead.
type Copier struct {
	Coupler *Coupler
	// Output receives bytes read from the child (usually a *coreterm.Terminal).
	Output io.Writer
}

// Run copies child output into Output until the child exits or an error
// occurs, then closes the Coupler. It blocks and is meant to be run in its
// own goroutine.
func (c *Copier) Run() error {
	_, err := io.Copy(c.Output, c.Coupler)
	closeErr := c.Coupler.Close()
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return closeErr
}
