package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/kestrely/lc3vm/internal/cli"
	"github.com/kestrely/lc3vm/internal/loader"
	"github.com/kestrely/lc3vm/internal/log"
	"github.com/kestrely/lc3vm/internal/vm"
)

// Debugger returns the "debug" sub-command: an interactive, single-step TUI
// over a loaded object file.
func Debugger() cli.Command {
	return &debugger{}
}

type debugger struct{}

func (debugger) Description() string { return "single-step a program in an interactive debugger" }

func (debugger) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `debug program.obj

Loads the program and opens an interactive, single-step debugger.
Press space or "j" to step one instruction, "q" to quit.`)

	return err
}

func (debugger) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("debug", flag.ExitOnError)
}

func (debugger) Run(_ context.Context, args []string, _ io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("debug requires a path to an object file")
		return 1
	}

	words, origin, err := loader.Load(args[0])
	if err != nil {
		logger.Error("loading object", "err", err)
		return 1
	}

	kbd := vm.NewKeyboardQueue()
	machine := vm.New(kbd, discardTerminal{})
	machine.LoadImage(words, origin)

	m, err := tea.NewProgram(debugModel{machine: machine}).Run()
	if err != nil {
		logger.Error("debugger", "err", err)
		return 1
	}

	if fin, ok := m.(debugModel); ok && fin.stepErr != nil {
		fmt.Fprintln(os.Stdout, "stopped:", fin.stepErr)
	}

	return 0
}

// discardTerminal swallows display writes; the debugger shows machine state
// instead of emulating a console.
type discardTerminal struct{}

func (discardTerminal) Write(p []byte) (int, error) { return len(p), nil }

type debugModel struct {
	machine *vm.LC3
	prevPC  vm.Word
	stepErr error
}

func (m debugModel) Init() tea.Cmd { return nil }

func (m debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "j":
		if !m.machine.Running() {
			return m, nil
		}

		m.prevPC = m.machine.PC

		if err := m.machine.Step(); err != nil {
			m.stepErr = err
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m debugModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.registers(),
		"",
		spew.Sdump(m.machine.REG),
		"(space/j: step, q: quit)",
	)
}

func (m debugModel) registers() string {
	var b strings.Builder

	fmt.Fprintf(&b, "PC: %s (was %s)\n", m.machine.PC, m.prevPC)
	fmt.Fprintf(&b, "CC: %s\n", m.machine.CC)
	fmt.Fprintf(&b, "running: %v\n", m.machine.Running())

	return b.String()
}
