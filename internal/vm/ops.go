package vm

// ops.go implements the fourteen opcodes' semantics (spec.md §4.3). Each
// handler receives the already-fetched instruction and the incremented PC
// already in place; it is free to read and write vm.REG, vm.PC and vm.Mem.
//
// Memory in this machine never fails and never raises an interrupt, so,
// unlike the teacher's addressable/fetchable/storable staged-operation
// interfaces (built for a privilege-checked, interruptable memory bus), each
// opcode here is a single direct function.

type opFunc func(vm *LC3, ir Instruction)

// opTable is indexed by Opcode. OpRTI, OpRESV and OpTRAP have no entry: Step
// handles the first two as a fatal error and the third by calling execTrap,
// since only TRAP can return an error of its own (an illegal trap code).
var opTable = [...]opFunc{
	OpBR:  execBR,
	OpADD: execADD,
	OpLD:  execLD,
	OpST:  execST,
	OpJSR: execJSR,
	OpAND: execAND,
	OpLDR: execLDR,
	OpSTR: execSTR,
	OpNOT: execNOT,
	OpLDI: execLDI,
	OpSTI: execSTI,
	OpJMP: execJMP,
	OpLEA: execLEA,
}

// ADD: register mode R[DR] = R[SR1] + R[SR2]; immediate mode adds SEXT(w,5).
func execADD(vm *LC3, ir Instruction) {
	var sum Register

	if ir.ImmFlag() {
		sum = vm.REG[ir.SR1()] + Register(ir.Imm5())
	} else {
		sum = vm.REG[ir.SR1()] + vm.REG[ir.SR2()]
	}

	vm.writeReg(ir.DR(), sum)
}

// AND: same encoding as ADD, bitwise AND instead of addition.
func execAND(vm *LC3, ir Instruction) {
	var res Register

	if ir.ImmFlag() {
		res = vm.REG[ir.SR1()] & Register(ir.Imm5())
	} else {
		res = vm.REG[ir.SR1()] & vm.REG[ir.SR2()]
	}

	vm.writeReg(ir.DR(), res)
}

// NOT: R[DR] = ^R[SR1].
func execNOT(vm *LC3, ir Instruction) {
	vm.writeReg(ir.DR(), ^vm.REG[ir.SR1()])
}

// LD: R[DR] = MEM[PC + SEXT(offset9)].
func execLD(vm *LC3, ir Instruction) {
	addr := Word(vm.PC) + ir.Offset9()
	vm.writeReg(ir.DR(), Register(vm.Mem.Load(addr)))
}

// LDR: R[DR] = MEM[R[BaseR] + SEXT(offset6)].
func execLDR(vm *LC3, ir Instruction) {
	addr := Word(vm.REG[ir.BaseR()]) + ir.Offset6()
	vm.writeReg(ir.DR(), Register(vm.Mem.Load(addr)))
}

// LDI: R[DR] = MEM[MEM[PC + SEXT(offset9)]].
func execLDI(vm *LC3, ir Instruction) {
	ptr := Word(vm.PC) + ir.Offset9()
	addr := vm.Mem.Load(ptr)
	vm.writeReg(ir.DR(), Register(vm.Mem.Load(addr)))
}

// LEA: R[DR] = PC + SEXT(offset9). This implementation sets CC on LEA,
// matching original_source and the 2048 program it ships; see spec.md §9.
func execLEA(vm *LC3, ir Instruction) {
	vm.writeReg(ir.DR(), Register(Word(vm.PC)+ir.Offset9()))
}

// ST: MEM[PC + SEXT(offset9)] = R[DR].
func execST(vm *LC3, ir Instruction) {
	addr := Word(vm.PC) + ir.Offset9()
	vm.Mem.Store(addr, Word(vm.REG[ir.DR()]))
}

// STR: MEM[R[BaseR] + SEXT(offset6)] = R[DR].
func execSTR(vm *LC3, ir Instruction) {
	addr := Word(vm.REG[ir.BaseR()]) + ir.Offset6()
	vm.Mem.Store(addr, Word(vm.REG[ir.DR()]))
}

// STI: MEM[MEM[PC + SEXT(offset9)]] = R[DR].
func execSTI(vm *LC3, ir Instruction) {
	ptr := Word(vm.PC) + ir.Offset9()
	addr := vm.Mem.Load(ptr)
	vm.Mem.Store(addr, Word(vm.REG[ir.DR()]))
}

// BR: if the instruction's NZP mask intersects CC, PC += SEXT(offset9).
func execBR(vm *LC3, ir Instruction) {
	if ir.NZP()&vm.CC != 0 {
		vm.PC += ir.Offset9()
	}
}

// JMP: PC = R[BaseR]. RET is the special case BaseR == R7.
func execJMP(vm *LC3, ir Instruction) {
	vm.PC = Word(vm.REG[ir.BaseR()])
}

// JSR/JSRR: R[7] = PC, then either PC += SEXT(offset11) (JSR) or
// PC = R[BaseR] (JSRR), selected by bit 11 of the instruction.
func execJSR(vm *LC3, ir Instruction) {
	vm.REG[LinkReg] = Register(vm.PC)

	if ir.JSRFlag() {
		vm.PC += ir.Offset11()
	} else {
		vm.PC = Word(vm.REG[ir.BaseR()])
	}
}

// writeReg stores v in register dr and sets CC from its signed sign.
func (vm *LC3) writeReg(dr GPR, v Register) {
	vm.REG[dr] = v
	vm.CC.Set(v)
}
