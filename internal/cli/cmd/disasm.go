package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/kestrely/lc3vm/internal/cli"
	"github.com/kestrely/lc3vm/internal/disasm"
	"github.com/kestrely/lc3vm/internal/loader"
	"github.com/kestrely/lc3vm/internal/log"
)

// Disassembler returns the "disasm" sub-command: print an object file as
// assembly.
func Disassembler() cli.Command {
	return &disassembler{}
}

type disassembler struct{}

func (disassembler) Description() string { return "disassemble an object file" }

func (disassembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `disasm program.obj

Prints the program's origin and one decoded instruction per word.`)

	return err
}

func (disassembler) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

func (disassembler) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("disasm requires a path to an object file")
		return 1
	}

	words, origin, err := loader.Load(args[0])
	if err != nil {
		logger.Error("loading object", "err", err)
		return 1
	}

	if err := disasm.Disassemble(stdout, words, origin); err != nil {
		logger.Error("disassembling", "err", err)
		return 1
	}

	return 0
}
