package vm

// exec.go is the fetch-decode-execute loop (spec.md §4.3).

import (
	"context"
	"errors"
	"fmt"
)

// ErrHalted is returned by Step once the machine has transitioned to
// Halted, whether via the HALT trap or an MCR bit-15 clear.
var ErrHalted = errors.New("lc3: halted")

// Run executes Step in a loop until the machine halts, an illegal
// instruction or trap aborts it, or ctx is cancelled.
func (vm *LC3) Run(ctx context.Context) error {
	vm.log.Info("machine started", "PC", vm.PC)

	for {
		select {
		case <-ctx.Done():
			vm.log.Warn("cancelled", "PC", vm.PC)
			return ctx.Err()
		default:
		}

		if err := vm.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				vm.log.Info("machine halted", "PC", vm.PC)
				return nil
			}

			vm.log.Error("fatal", "err", err, "PC", vm.PC, "CC", vm.CC)

			return err
		}
	}
}

// Step fetches the word at PC, increments PC, and dispatches on the top
// nibble. All further PC-relative addresses in the instruction are computed
// against the already-incremented PC, the LC-3 convention (spec.md §4.3).
func (vm *LC3) Step() error {
	if !vm.running {
		return ErrHalted
	}

	ir := Instruction(vm.Mem.Load(vm.PC))
	vm.PC++

	op := ir.Opcode()

	switch op {
	case OpRESV, OpRTI:
		return fmt.Errorf("step: %w", &IllegalOpcodeError{Opcode: op})
	case OpTRAP:
		if err := vm.execTrap(ir); err != nil {
			return fmt.Errorf("step: %w", err)
		}
	default:
		opTable[op](vm, ir)
	}

	if !vm.running {
		return ErrHalted
	}

	vm.log.Debug("executed", "IR", ir, "PC", vm.PC, "CC", vm.CC)

	return nil
}
