// Package disasm renders a loaded LC-3 program as human-readable assembly,
// one line per word, following the same bit layout internal/vm decodes.
package disasm

import (
	"fmt"
	"io"

	"github.com/kestrely/lc3vm/internal/vm"
)

// Disassemble writes one line per word in words to w, each prefixed with the
// word's own address. PC-relative operands are resolved against the
// effective PC a fetch of that word would produce (the word's address + 1),
// matching the engine's own convention (spec.md §4.3).
func Disassemble(w io.Writer, words []vm.Word, origin vm.Word) error {
	if _, err := fmt.Fprintf(w, "origin %s\n", origin); err != nil {
		return err
	}

	for i, word := range words {
		addr := origin + vm.Word(i)
		pc := addr + 1
		ir := vm.Instruction(word)

		if _, err := fmt.Fprintf(w, "%s: %s\n", addr, line(ir, pc)); err != nil {
			return err
		}
	}

	return nil
}

func line(ir vm.Instruction, pc vm.Word) string {
	switch ir.Opcode() {
	case vm.OpADD:
		return regOp("add", ir)
	case vm.OpAND:
		return regOp("and", ir)
	case vm.OpNOT:
		return fmt.Sprintf("not $%d $%d", ir.DR(), ir.SR1())
	case vm.OpLD:
		return fmt.Sprintf("ld  $%d %s", ir.DR(), pc+ir.Offset9())
	case vm.OpLDR:
		return fmt.Sprintf("ldr $%d $%d %d", ir.DR(), ir.BaseR(), int16(ir.Offset6()))
	case vm.OpLDI:
		return fmt.Sprintf("ldi $%d %s", ir.DR(), pc+ir.Offset9())
	case vm.OpLEA:
		return fmt.Sprintf("lea $%d %s", ir.DR(), pc+ir.Offset9())
	case vm.OpST:
		return fmt.Sprintf("st  $%d %s", ir.DR(), pc+ir.Offset9())
	case vm.OpSTR:
		return fmt.Sprintf("str $%d $%d %d", ir.DR(), ir.BaseR(), int16(ir.Offset6()))
	case vm.OpSTI:
		return fmt.Sprintf("sti $%d %s", ir.DR(), pc+ir.Offset9())
	case vm.OpJMP:
		return fmt.Sprintf("jmp $%d", ir.BaseR())
	case vm.OpBR:
		return branch(ir, pc)
	case vm.OpJSR:
		return jsr(ir, pc)
	case vm.OpTRAP:
		return trap(ir)
	default:
		return fmt.Sprintf("illegal op %s", ir.Opcode())
	}
}

func regOp(mnemonic string, ir vm.Instruction) string {
	if ir.ImmFlag() {
		return fmt.Sprintf("%s $%d $%d %d", mnemonic, ir.DR(), ir.SR1(), int16(ir.Imm5()))
	}

	return fmt.Sprintf("%s $%d $%d $%d", mnemonic, ir.DR(), ir.SR1(), ir.SR2())
}

func branch(ir vm.Instruction, pc vm.Word) string {
	mask := ir.NZP()

	suffix := ""
	if mask&vm.CondNegative != 0 {
		suffix += "n"
	}

	if mask&vm.CondZero != 0 {
		suffix += "z"
	}

	if mask&vm.CondPositive != 0 {
		suffix += "p"
	}

	return fmt.Sprintf("br%s %s", suffix, pc+ir.Offset9())
}

func jsr(ir vm.Instruction, pc vm.Word) string {
	if !ir.JSRFlag() {
		return fmt.Sprintf("jsr $%d", ir.BaseR())
	}

	return fmt.Sprintf("jsr %s", pc+ir.Offset11())
}

func trap(ir vm.Instruction) string {
	switch ir.TrapVector() {
	case vm.TrapGETC:
		return "getc"
	case vm.TrapOUT:
		return "out"
	case vm.TrapIN:
		return "in"
	case vm.TrapPUTS:
		return "puts"
	case vm.TrapPUTSP:
		return "putsp"
	case vm.TrapHALT:
		return "halt"
	default:
		return fmt.Sprintf("illegal trap %d", ir.TrapVector())
	}
}
