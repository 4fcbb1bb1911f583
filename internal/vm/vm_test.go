package vm

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// recorder is an in-memory Terminal and KeySource, so engine and trap tests
// don't need a real TTY (SPEC_FULL.md §11 "Test tooling").
type recorder struct {
	out  bytes.Buffer
	keys []rune
}

func (r *recorder) Write(p []byte) (int, error) { return r.out.Write(p) }

func (r *recorder) ReadKey() (rune, error) {
	if len(r.keys) == 0 {
		return 0, errors.New("recorder: no more keys")
	}

	k := r.keys[0]
	r.keys = r.keys[1:]

	return k, nil
}

// harness builds a machine with a recording terminal and a directly
// poppable keyboard queue (no producer goroutine, so tests stay
// deterministic).
type harness struct {
	t    *testing.T
	term *recorder
	kbd  *KeyboardQueue
	vm   *LC3
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:    t,
		term: &recorder{},
		kbd:  NewKeyboardQueue(),
	}
	h.vm = New(h.kbd, h.term)

	return h
}

// load assembles a tiny program from raw words at origin and sets PC there.
func (h *harness) load(origin Word, words ...Word) {
	h.vm.LoadImage(words, origin)
}

func (h *harness) typeKey(r rune) { h.kbd.Push(r) }

func TestStep_arithmeticAndCC(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000,
		Word(NewInstruction(OpADD, 0x0261)), // ADD R1,R1,#1
		Word(NewInstruction(OpADD, 0x047f)), // ADD R2,R1,#-1
		Word(NewInstruction(OpTRAP, uint16(TrapHALT))),
	)

	for i := 0; i < 3; i++ {
		if err := h.vm.Step(); err != nil && !errors.Is(err, ErrHalted) {
			tt.Fatalf("step %d: %v", i, err)
		}
	}

	if h.vm.REG[R1] != 1 {
		tt.Errorf("R1 = %s, want 1", h.vm.REG[R1])
	}

	if h.vm.REG[R2] != 0 {
		tt.Errorf("R2 = %s, want 0", h.vm.REG[R2])
	}

	if h.vm.CC != CondZero {
		tt.Errorf("CC = %s, want Z", h.vm.CC)
	}

	if h.vm.Running() {
		tt.Error("machine should be halted")
	}
}

func TestStep_leaAndPuts(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000,
		Word(NewInstruction(OpLEA, 0x0002)), // LEA R0,#2 -> 0x3001+2 = 0x3003
		Word(NewInstruction(OpTRAP, uint16(TrapPUTS))),
		Word(NewInstruction(OpTRAP, uint16(TrapHALT))),
		Word('H'), Word('i'), 0,
	)

	for h.vm.Running() {
		if err := h.vm.Step(); err != nil && !errors.Is(err, ErrHalted) {
			tt.Fatalf("step: %v", err)
		}
	}

	if got := h.term.out.String(); got != "Hi" {
		tt.Errorf("output = %q, want %q", got, "Hi")
	}
}

func TestStep_subroutineLink(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000,
		Word(NewInstruction(OpJSR, 0x0801)), // JSR #1
		Word(NewInstruction(OpTRAP, uint16(TrapHALT))),
		Word(NewInstruction(OpJMP, 0x01c0)), // RET (BaseR=7)
	)

	for h.vm.Running() {
		if err := h.vm.Step(); err != nil && !errors.Is(err, ErrHalted) {
			tt.Fatalf("step: %v", err)
		}
	}

	if h.vm.REG[R7] != 0x3001 {
		tt.Errorf("R7 = %s, want 0x3001", h.vm.REG[R7])
	}
}

func TestStep_ldiThroughKBDR(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.typeKey('A')

	h.load(0x3000,
		Word(NewInstruction(OpLDI, 0x0001)), // LDI R0,#1 -> ptr at 0x3002
		Word(NewInstruction(OpTRAP, uint16(TrapHALT))),
		Word(KBDRAddr),
	)

	for h.vm.Running() {
		if err := h.vm.Step(); err != nil && !errors.Is(err, ErrHalted) {
			tt.Fatalf("step: %v", err)
		}
	}

	if h.vm.REG[R0] != 'A' {
		tt.Errorf("R0 = %s, want 'A'", h.vm.REG[R0])
	}

	if !h.kbd.IsEmpty() {
		tt.Error("keyboard queue should be drained")
	}

	if h.vm.CC != CondPositive {
		tt.Errorf("CC = %s, want P", h.vm.CC)
	}
}

func TestStep_mcrHaltViaStore(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000,
		Word(NewInstruction(OpAND, 0x0020)), // AND R0,R0,#0
		Word(NewInstruction(OpSTI, 0x0000)), // STI R0,#0 -> ptr is the word right after
		Word(MCRAddr),
		Word(NewInstruction(OpADD, 0x0261)), // never reached
	)

	for i := 0; i < 10 && h.vm.Running(); i++ {
		if err := h.vm.Step(); err != nil && !errors.Is(err, ErrHalted) {
			tt.Fatalf("step: %v", err)
		}
	}

	if h.vm.Running() {
		tt.Error("machine should have halted via MCR clear")
	}

	if h.vm.REG[R1] != 0 {
		tt.Error("instruction after the halting store must not execute")
	}
}

func TestStep_illegalOpcode(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000, Word(NewInstruction(OpRESV, 0)))

	err := h.vm.Step()

	var ioErr *IllegalOpcodeError
	if !errors.As(err, &ioErr) {
		tt.Fatalf("err = %v, want *IllegalOpcodeError", err)
	}
}

func TestStep_illegalTrap(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000, Word(NewInstruction(OpTRAP, 0x00ff)))

	err := h.vm.Step()

	var trapErr *IllegalTrapError
	if !errors.As(err, &trapErr) {
		tt.Fatalf("err = %v, want *IllegalTrapError", err)
	}
}

func TestRun_untilHalt(tt *testing.T) {
	tt.Parallel()

	h := newHarness(tt)
	h.load(0x3000,
		Word(NewInstruction(OpADD, 0x0261)),
		Word(NewInstruction(OpTRAP, uint16(TrapHALT))),
	)

	if err := h.vm.Run(context.Background()); err != nil {
		tt.Fatalf("run: %v", err)
	}

	if h.vm.Running() {
		tt.Error("machine should be halted")
	}
}
