package memory

import (
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
)

// WrapMemory wraps a wazero api.Memory to implement keymapclone.Memory.
func WrapMemory(mem api.Memory) keymapclone.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the big-endian keymapclone.Memory
// interface. wazero's typed accessors are little-endian, so 32-bit values
// go through byte views.
type Wrapper struct {
	Mem api.Memory
}

// Size returns the current linear memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Read returns a copy of length bytes at addr.
func (m *Wrapper) Read(addr uint32, length uint32) ([]byte, error) {
	view, ok := m.Mem.Read(addr, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, length, m.Mem.Size())
	}
	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(addr uint32, data []byte) error {
	if !m.Mem.Write(addr, data) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, uint32(len(data)), m.Mem.Size())
	}
	return nil
}

// ReadU8 reads one byte.
func (m *Wrapper) ReadU8(addr uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(addr)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, 1, m.Mem.Size())
	}
	return v, nil
}

// ReadU32 reads a big-endian 32-bit value.
func (m *Wrapper) ReadU32(addr uint32) (uint32, error) {
	view, ok := m.Mem.Read(addr, 4)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, 4, m.Mem.Size())
	}
	return binary.BigEndian.Uint32(view), nil
}

// WriteU8 writes one byte.
func (m *Wrapper) WriteU8(addr uint32, value uint8) error {
	if !m.Mem.WriteByte(addr, value) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, 1, m.Mem.Size())
	}
	return nil
}

// WriteU32 writes a big-endian 32-bit value.
func (m *Wrapper) WriteU32(addr uint32, value uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	if !m.Mem.Write(addr, buf[:]) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, 4, m.Mem.Size())
	}
	return nil
}
