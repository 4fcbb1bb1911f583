package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kestrely/lc3vm/internal/cli"
	"github.com/kestrely/lc3vm/internal/loader"
	"github.com/kestrely/lc3vm/internal/log"
	"github.com/kestrely/lc3vm/internal/term"
	"github.com/kestrely/lc3vm/internal/vm"
)

const defaultProgram = "./programs/obj/2048.obj"

// Runner returns the "run" sub-command: load an object file and execute it
// until it halts.
func Runner() cli.Command {
	return &runner{log: log.DefaultLogger()}
}

type runner struct {
	logLevel slog.Level
	log      *log.Logger
}

func (runner) Description() string { return "load and run an object file" }

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintf(out, `run [program.obj]

Loads and runs an LC-3 object file. Keyboard input is read from the
console a key at a time; if standard input is not a terminal, GETC and IN
traps block forever. Defaults to %s.
`, defaultProgram)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return r.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	log.LogLevel.Set(r.logLevel)

	path := defaultProgram
	if len(args) > 0 {
		path = args[0]
	}

	words, origin, err := loader.Load(path)
	if err != nil {
		logger.Error("loading object", "err", err)
		return 1
	}

	cons, err := term.NewConsole(os.Stdin, os.Stdout)

	var kbd *vm.KeyboardQueue

	var out vm.Terminal = writerTerminal{stdout}

	switch {
	case err == nil:
		defer func() { _ = cons.Restore() }()

		kbd = vm.Spawn(cons)
		out = cons
	case errors.Is(err, term.ErrNoTTY):
		logger.Debug("no tty, keyboard input disabled")
		kbd = vm.NewKeyboardQueue()
	default:
		logger.Error("opening console", "err", err)
		return 1
	}

	machine := vm.New(kbd, out)
	machine.LoadImage(words, origin)

	logger.Info("loaded object", "file", path, "origin", origin, "words", len(words))

	if err := machine.Run(ctx); err != nil {
		logger.Error("machine error", "err", err)
		return 1
	}

	return 0
}

// writerTerminal adapts any io.Writer to vm.Terminal, for the no-tty case
// where display output is written to the command's configured stdout.
type writerTerminal struct{ io.Writer }

