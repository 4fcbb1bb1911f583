package vm

// traps.go implements the six trap service routines (spec.md §4.3.2). Traps
// run inline as intrinsics of the engine: this machine does not emulate an
// OS vector table, so there is no return address to push and no routine to
// fetch from memory.

// Trap service codes, the low byte of a TRAP instruction.
const (
	TrapGETC  uint8 = 0x20
	TrapOUT   uint8 = 0x21
	TrapPUTS  uint8 = 0x22
	TrapIN    uint8 = 0x23
	TrapPUTSP uint8 = 0x24
	TrapHALT  uint8 = 0x25
)

// execTrap dispatches a TRAP instruction's low-byte selector. An
// unrecognized code is a fatal, illegal trap (spec.md §7).
func (vm *LC3) execTrap(ir Instruction) error {
	switch ir.TrapVector() {
	case TrapGETC:
		vm.REG[R0] = Register(vm.Mem.Load(KBDRAddr)) & 0x7f
	case TrapOUT:
		vm.emit(byte(vm.REG[R0] & 0x7f))
	case TrapPUTS:
		vm.puts()
	case TrapIN:
		vm.emit('>')
		key := Register(vm.Mem.Load(KBDRAddr)) & 0x7f
		vm.emit(byte(key))
		vm.REG[R0] = key
	case TrapPUTSP:
		vm.putsp()
	case TrapHALT:
		vm.halt()
	default:
		return &IllegalTrapError{Code: ir.TrapVector()}
	}

	return nil
}

// emit writes a single masked character to the terminal via the display
// data register, the same path an LC-3 program would use.
func (vm *LC3) emit(b byte) {
	vm.Mem.Store(DDRAddr, Word(b&0x7f))
}

// puts emits successive words' low 7 bits from R[0] until a zero word.
func (vm *LC3) puts() {
	addr := Word(vm.REG[R0])

	for {
		w := vm.Mem.Load(addr)
		if w == 0 {
			return
		}

		vm.emit(byte(w & 0x7f))
		addr++
	}
}

// putsp emits low byte then high byte of each word from R[0], stopping at
// the first zero byte encountered in either position (spec.md §9 "PUTSP
// byte order").
func (vm *LC3) putsp() {
	addr := Word(vm.REG[R0])

	for {
		w := vm.Mem.Load(addr)

		lo := byte(w & 0x7f)
		if lo == 0 {
			return
		}

		vm.emit(lo)

		hi := byte(w >> 8 & 0x7f)
		if hi == 0 {
			return
		}

		vm.emit(hi)
		addr++
	}
}
