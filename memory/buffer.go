package memory

import (
	"encoding/binary"

	"github.com/wippyai/keymap-clone/errors"
)

// Buffer is a byte slice mapped at a base address.
type Buffer struct {
	data []byte
	base uint32
}

// NewBuffer creates a zeroed buffer of size bytes mapped at base.
func NewBuffer(base, size uint32) *Buffer {
	return &Buffer{base: base, data: make([]byte, size)}
}

// Base returns the first address of the buffer.
func (b *Buffer) Base() uint32 {
	return b.base
}

// Size returns the buffer length in bytes.
func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Bytes returns the backing slice. Writes through it are visible to readers.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) span(addr, length uint32) ([]byte, error) {
	if addr < b.base {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, length, b.Size())
	}
	off := uint64(addr - b.base)
	if off+uint64(length) > uint64(len(b.data)) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, length, b.Size())
	}
	return b.data[off : off+uint64(length)], nil
}

// Read returns a copy of length bytes at addr.
func (b *Buffer) Read(addr uint32, length uint32) ([]byte, error) {
	s, err := b.span(addr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, s)
	return out, nil
}

// Write copies data to addr.
func (b *Buffer) Write(addr uint32, data []byte) error {
	s, err := b.span(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(s, data)
	return nil
}

// ReadU8 reads one byte.
func (b *Buffer) ReadU8(addr uint32) (uint8, error) {
	s, err := b.span(addr, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// ReadU32 reads a big-endian 32-bit value.
func (b *Buffer) ReadU32(addr uint32) (uint32, error) {
	s, err := b.span(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s), nil
}

// WriteU8 writes one byte.
func (b *Buffer) WriteU8(addr uint32, value uint8) error {
	s, err := b.span(addr, 1)
	if err != nil {
		return err
	}
	s[0] = value
	return nil
}

// WriteU32 writes a big-endian 32-bit value.
func (b *Buffer) WriteU32(addr uint32, value uint32) error {
	s, err := b.span(addr, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(s, value)
	return nil
}
