package keymapclone

// Memory represents a big-endian, byte-addressed address space that holds
// layout tables and their descriptor tables.
type Memory interface {
	Read(addr uint32, length uint32) ([]byte, error)
	Write(addr uint32, data []byte) error
	ReadU8(addr uint32) (uint8, error)
	ReadU32(addr uint32) (uint32, error)
	WriteU8(addr uint32, value uint8) error
	WriteU32(addr uint32, value uint32) error
}

// MemorySizer provides the size of an address space in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator hands out blocks of an address space.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// Heap is an address space that can also allocate blocks of itself.
type Heap interface {
	Memory
	Allocator
}
