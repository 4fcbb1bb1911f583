// cmd/lc3vm is the command-line interface to the LC-3 virtual machine: run
// object files, disassemble them, or single-step one in an interactive
// debugger.
package main

import (
	"context"
	"os"

	"github.com/kestrely/lc3vm/internal/cli"
	"github.com/kestrely/lc3vm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Runner(),
	cmd.Disassembler(),
	cmd.Debugger(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
