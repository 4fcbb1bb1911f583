package disasm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kestrely/lc3vm/internal/disasm"
	"github.com/kestrely/lc3vm/internal/vm"
)

func TestDisassemble(tt *testing.T) {
	tt.Parallel()

	words := []vm.Word{
		vm.Word(vm.NewInstruction(vm.OpAND, 0x0020)),  // and $0 $0 0
		vm.Word(vm.NewInstruction(vm.OpLEA, 0x0002)),  // lea $0 ...
		vm.Word(vm.NewInstruction(vm.OpTRAP, 0x0022)), // puts
		vm.Word(vm.NewInstruction(vm.OpTRAP, 0x0025)), // halt
	}

	var buf bytes.Buffer

	if err := disasm.Disassemble(&buf, words, 0x3000); err != nil {
		tt.Fatalf("disassemble: %s", err)
	}

	out := buf.String()

	if !strings.HasPrefix(out, "origin 0x3000\n") {
		tt.Fatalf("missing origin header, got: %q", out)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != len(words)+1 {
		tt.Fatalf("got %d lines, want %d", len(lines), len(words)+1)
	}

	wantSuffixes := []string{
		"and $0 $0 0",
		"lea $0 0x3004",
		"puts",
		"halt",
	}

	for i, want := range wantSuffixes {
		if !strings.HasSuffix(lines[i+1], want) {
			tt.Errorf("line %d = %q, want suffix %q", i, lines[i+1], want)
		}
	}
}

func TestDisassemble_illegal(tt *testing.T) {
	tt.Parallel()

	words := []vm.Word{vm.Word(vm.NewInstruction(vm.OpRESV, 0))}

	var buf bytes.Buffer
	if err := disasm.Disassemble(&buf, words, 0x3000); err != nil {
		tt.Fatalf("disassemble: %s", err)
	}

	if !strings.Contains(buf.String(), "illegal op") {
		tt.Errorf("expected illegal op marker, got: %q", buf.String())
	}
}
