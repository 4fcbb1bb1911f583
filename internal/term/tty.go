// Package term adapts a Unix terminal to the machine's keyboard and display
// devices.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is a serial console for the machine, backed by the process's
// controlling terminal put into raw mode. Console satisfies both
// vm.Terminal (Write) and vm.KeySource (ReadKey) structurally; callers wire
// it into vm.New and vm.Spawn without this package importing internal/vm.
type Console struct {
	in    *os.File
	out   *os.File
	buf   *bufio.Reader
	fd    int
	state *term.State
}

// ErrNoTTY is returned if standard input is not a terminal. In this case,
// asynchronous single-keystroke I/O is not available.
var ErrNoTTY = errors.New("console: not a TTY")

// NewConsole puts sin into raw mode and returns a Console that reads
// keystrokes from sin and writes display output to sout. Callers must call
// Restore to return the terminal to its original state.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		in:    sin,
		out:   sout,
		buf:   bufio.NewReader(sin),
		state: saved,
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, saved)
		return nil, err
	}

	return cons, nil
}

// ReadKey blocks for a single keystroke and returns it as a rune. It
// satisfies vm.KeySource.
func (c *Console) ReadKey() (rune, error) {
	b, err := c.buf.ReadByte()
	if err != nil {
		return 0, err
	}

	return rune(b), nil
}

// Write writes p to the console's output stream. It satisfies vm.Terminal.
func (c *Console) Write(p []byte) (int, error) { return c.out.Write(p) }

// Restore returns the terminal to the state it was in before NewConsole.
func (c *Console) Restore() error {
	return term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, false)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	return unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO)
}
