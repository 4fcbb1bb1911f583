package vm

// cpu.go assembles the machine from its parts: registers, memory, the
// keyboard queue and the terminal.

import (
	"fmt"

	"github.com/kestrely/lc3vm/internal/log"
)

// LC3 is the machine state: program counter, general-purpose registers,
// condition code and the memory/I-O plane (spec.md §3).
type LC3 struct {
	PC  Word
	REG RegisterFile
	CC  Condition
	Mem Memory

	running bool
	log     *log.Logger
}

// New creates a machine wired to kbd for keyboard input and term for
// character output. The machine starts in the Running state with PC, REG
// and CC all zero, per spec.md §3; call LoadImage to place a program and
// set the initial PC before Run.
func New(kbd *KeyboardQueue, term Terminal) *LC3 {
	vm := &LC3{
		running: true,
		log:     log.DefaultLogger(),
	}

	vm.Mem = NewMemory(kbd, term, vm.haltNow)

	return vm
}

// LoadImage places words in memory starting at origin and sets PC to
// origin, matching the loader contract of spec.md §6: "the loader hands the
// engine a slice of words and an origin address; the engine places them
// starting at origin and begins fetching."
func (vm *LC3) LoadImage(words []Word, origin Word) {
	vm.Mem.LoadImage(words, origin)
	vm.PC = origin
}

// Running reports whether the machine has not yet halted.
func (vm *LC3) Running() bool { return vm.running }

func (vm *LC3) haltNow() { vm.running = false }

// halt is the HALT trap's way out. The MCR device's halt callback is haltNow
// itself, so both the HALT trap and an MCR bit-15 clear end in haltNow and
// the machine always stops the same way regardless of which triggered it
// (spec.md §9 "Engine re-entrancy").
func (vm *LC3) halt() { vm.haltNow() }

func (vm *LC3) String() string {
	return fmt.Sprintf("PC:%s CC:%s REG:[%s]", Word(vm.PC), vm.CC, vm.REG)
}

// IllegalOpcodeError is returned when Step decodes a RESV or RTI opcode,
// neither of which this machine implements (spec.md §1 Non-goals).
type IllegalOpcodeError struct{ Opcode Opcode }

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode: %s (%#x)", e.Opcode, uint8(e.Opcode))
}

// IllegalTrapError is returned when a TRAP instruction's low byte does not
// match one of the six defined service codes.
type IllegalTrapError struct{ Code uint8 }

func (e *IllegalTrapError) Error() string {
	return fmt.Sprintf("illegal trap: %#02x", e.Code)
}
