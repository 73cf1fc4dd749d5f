package keymap

import (
	"fmt"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

// Range selects one of the two scan-code ranges of a table.
type Range int

const (
	Lo Range = iota
	Hi
)

// Ranges lists both ranges in traversal order.
var Ranges = [...]Range{Lo, Hi}

func (r Range) String() string {
	if r == Lo {
		return "lo"
	}
	return "hi"
}

// Len returns the number of slots in the range.
func (r Range) Len() int {
	if r == Lo {
		return format.LoLength
	}
	return format.HiLength
}

// Base returns the raw key of the range's first slot.
func (r Range) Base() byte {
	if r == Lo {
		return format.LoBase
	}
	return format.HiBase
}

// BitmaskBytes returns the size of the range's capsable and repeatable arrays.
func (r Range) BitmaskBytes() uint32 {
	if r == Lo {
		return format.LoBitmaskBytes
	}
	return format.HiBitmaskBytes
}

func (r Range) typesField() int {
	if r == Lo {
		return format.FieldLoTypes
	}
	return format.FieldHiTypes
}

func (r Range) mapField() int {
	if r == Lo {
		return format.FieldLoMap
	}
	return format.FieldHiMap
}

// Header holds the eight array addresses of a table, in format field order.
type Header [format.FieldCount]uint32

// Table is a view of a layout table at an address in a Memory.
type Table struct {
	mem  keymapclone.Memory
	addr uint32
	hdr  Header
}

// Open reads the header at addr and returns a view of the table.
func Open(mem keymapclone.Memory, addr uint32) (*Table, error) {
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseTraverse, nil, "nil memory")
	}
	t := &Table{mem: mem, addr: addr}
	for i := range t.hdr {
		v, err := mem.ReadU32(addr + uint32(i)*4)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseTraverse, errors.KindOutOfBounds, err,
				fmt.Sprintf("read header field %s", format.FieldNames[i]))
		}
		t.hdr[i] = v
	}
	return t, nil
}

// Memory returns the address space the table lives in.
func (t *Table) Memory() keymapclone.Memory {
	return t.mem
}

// Addr returns the header address.
func (t *Table) Addr() uint32 {
	return t.addr
}

// Header returns a copy of the header.
func (t *Table) Header() Header {
	return t.hdr
}

// TypesAddr returns the address of the range's type tag array.
func (t *Table) TypesAddr(r Range) uint32 {
	return t.hdr[r.typesField()]
}

// MapAddr returns the address of the range's slot value array.
func (t *Table) MapAddr(r Range) uint32 {
	return t.hdr[r.mapField()]
}

// Types returns a copy of the range's type tags.
func (t *Table) Types(r Range) ([]byte, error) {
	return t.field(r.typesField())
}

// Entries returns the range's slot values.
func (t *Table) Entries(r Range) ([]uint32, error) {
	entries := make([]uint32, r.Len())
	base := t.MapAddr(r)
	for i := range entries {
		v, err := t.mem.ReadU32(base + uint32(i)*format.EntrySize)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseTraverse, errors.KindOutOfBounds, err,
				fmt.Sprintf("read %s entry %d", r, i))
		}
		entries[i] = v
	}
	return entries, nil
}

// Capsable returns a copy of the range's capsable bitmask.
func (t *Table) Capsable(r Range) ([]byte, error) {
	if r == Lo {
		return t.field(format.FieldLoCapsable)
	}
	return t.field(format.FieldHiCapsable)
}

// Repeatable returns a copy of the range's repeatable bitmask.
func (t *Table) Repeatable(r Range) ([]byte, error) {
	if r == Lo {
		return t.field(format.FieldLoRepeatable)
	}
	return t.field(format.FieldHiRepeatable)
}

func (t *Table) field(i int) ([]byte, error) {
	data, err := t.mem.Read(t.hdr[i], format.FieldSizes[i])
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTraverse, errors.KindOutOfBounds, err,
			fmt.Sprintf("read %s", format.FieldNames[i]))
	}
	return data, nil
}

// BitSet reports whether raw key's bit is set in a capsable or repeatable
// bitmask.
func BitSet(mask []byte, r Range, rawKey byte) bool {
	i := int(rawKey - r.Base())
	if i < 0 || i/8 >= len(mask) {
		return false
	}
	return mask[i/8]&(1<<(i%8)) != 0
}

// Descriptor is a read-only view of a String or Dead descriptor table.
type Descriptor struct {
	mem  keymapclone.Memory
	addr uint32
}

// NewDescriptor returns a view of the descriptor table at addr.
func NewDescriptor(mem keymapclone.Memory, addr uint32) Descriptor {
	return Descriptor{mem: mem, addr: addr}
}

// Addr returns the descriptor table address.
func (d Descriptor) Addr() uint32 {
	return d.addr
}

// Pair returns the i-th (length, offset) or (kind, value) pair.
func (d Descriptor) Pair(i int) (byte, byte, error) {
	b, err := d.Bytes(uint32(i)*2, 2)
	if err != nil {
		return 0, 0, err
	}
	return b[0], b[1], nil
}

// Bytes returns n bytes at offset off from the table start.
func (d Descriptor) Bytes(off, n uint32) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := d.mem.Read(d.addr+off, n)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTraverse, errors.KindOutOfBounds, err,
			fmt.Sprintf("read descriptor 0x%x+%d", d.addr, off))
	}
	return b, nil
}
