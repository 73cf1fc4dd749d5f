package memory

import (
	"fmt"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
)

// Arena is a bump allocator over the region [start, limit) of a Memory.
// Blocks are handed out in address order; freeing the most recent block
// rewinds the arena, freeing any other block is a no-op.
type Arena struct {
	keymapclone.Memory
	start uint32
	next  uint32
	limit uint32
}

// NewArena creates an arena over [start, limit) of mem.
func NewArena(mem keymapclone.Memory, start, limit uint32) *Arena {
	return &Arena{Memory: mem, start: start, next: start, limit: limit}
}

// NewBlock returns a standalone heap of exactly size bytes. Addresses in the
// block are byte offsets from its start.
func NewBlock(size uint32) *Arena {
	return NewArena(NewBuffer(0, size), 0, size)
}

// Alloc reserves size bytes aligned to align (a power of two, 0 meaning 1).
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseMemory, nil, fmt.Sprintf("alignment %d is not a power of two", align))
	}
	ptr := (uint64(a.next) + uint64(align) - 1) &^ uint64(align-1)
	end := ptr + uint64(size)
	if end > uint64(a.limit) {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("arena exhausted: need %d bytes at 0x%x, limit 0x%x", size, ptr, a.limit).
			Build()
	}
	a.next = uint32(end)
	return uint32(ptr), nil
}

// Free rewinds the arena when ptr is the most recent block.
func (a *Arena) Free(ptr, size, align uint32) {
	if ptr+size == a.next && ptr >= a.start {
		a.next = ptr
	}
}

// Used returns the number of bytes between the arena start and its cursor.
func (a *Arena) Used() uint32 {
	return a.next - a.start
}

// Remaining returns the number of unallocated bytes.
func (a *Arena) Remaining() uint32 {
	return a.limit - a.next
}
