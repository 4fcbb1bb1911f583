package vm

// mem.go is the machine's memory controller: a flat 64 KiW array with five
// addresses intercepted for memory-mapped I/O (spec.md §4.2).

import (
	"fmt"

	"github.com/kestrely/lc3vm/internal/log"
)

// AddrSpace is the size of the logical address space, in words.
const AddrSpace = 1 << 16

// Memory is the machine's 65,536-word address space. Ordinary addresses
// round-trip exactly (spec.md §8 property 3); the five addresses keyed in
// the mmio dispatcher's device map are intercepted instead of touching the
// backing array, except where the device semantics say the cell is also
// updated (spec.md §4.2 table).
type Memory struct {
	cell [AddrSpace]Word
	mmio *mmio

	log *log.Logger
}

// NewMemory creates a memory controller wired to the given keyboard queue,
// terminal and halt callback. Reserved cells are preseeded per spec.md §3.
func NewMemory(kbd *KeyboardQueue, term Terminal, halt func()) Memory {
	m := Memory{log: log.DefaultLogger()}
	m.mmio = newMMIO(&m, kbd, term, halt)
	m.cell[DSRAddr] = Word(displayReady)
	m.cell[MCRAddr] = Word(mcrRunning)

	return m
}

// Load returns the word stored at addr, routing reserved addresses through
// the I/O plane.
func (m *Memory) Load(addr Word) Word {
	if dev, ok := m.mmio.devices[addr]; ok {
		v := dev.Read(&m.cell[addr])
		m.log.Debug("mmio read", "addr", addr, "data", v)

		return v
	}

	return m.cell[addr]
}

// Store writes val to addr, routing reserved addresses through the I/O
// plane. Device semantics decide whether the backing cell is also updated.
func (m *Memory) Store(addr Word, val Word) {
	if dev, ok := m.mmio.devices[addr]; ok {
		m.log.Debug("mmio write", "addr", addr, "data", val)
		dev.Write(val, &m.cell[addr])

		return
	}

	m.cell[addr] = val
}

// LoadImage copies words into memory starting at origin. It is the
// machine-side half of the loader contract spec.md §6 describes: the loader
// supplies (words, origin); the engine places them and is ready to fetch.
func (m *Memory) LoadImage(words []Word, origin Word) {
	addr := origin
	for _, w := range words {
		m.cell[addr] = w
		addr++
	}
}

// View returns a copy of the backing array, for debugging and tests. It
// does not reflect device state for the reserved addresses.
func (m *Memory) View() [AddrSpace]Word {
	return m.cell
}

func (m *Memory) String() string {
	return fmt.Sprintf("Memory(%d words)", AddrSpace)
}
