// Package vm implements the LC-3 machine: its registers and memory, the
// memory-mapped I/O plane, the asynchronous keyboard queue, and the
// fetch-decode-execute loop.
//
// The machine is instruction-atomic, not cycle-accurate. It does not emulate
// supervisor mode, interrupts, the RTI instruction, or a trap vector table;
// traps run as inline intrinsics of the engine rather than as dispatches
// through memory, and an illegal opcode or an illegal trap is a fatal abort
// of the [LC3.Step] call rather than an exception.
package vm
