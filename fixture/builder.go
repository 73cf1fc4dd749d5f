package fixture

import (
	"fmt"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
	"github.com/wippyai/keymap-clone/keymap"
)

const slotCount = format.LoLength + format.HiLength

// descAlign spaces descriptor tables apart so a built table is never laid
// out the way a clone is.
const descAlign = 8

// DeadVariant is one (kind, value) entry of a dead descriptor table.
type DeadVariant struct {
	Table []byte // dead character table of a DPFMod variant
	Kind  byte
	Value byte
}

// None returns a variant producing the literal character ch.
func None(ch byte) DeadVariant {
	return DeadVariant{Kind: format.DPFNone, Value: ch}
}

// DeadIndex returns a dead key variant with the given index.
func DeadIndex(index byte) DeadVariant {
	return DeadVariant{Kind: format.DPFDead, Value: index}
}

// DoubleDead returns a double dead key variant.
func DoubleDead(multiplier, index byte) DeadVariant {
	return DeadVariant{Kind: format.DPFDead, Value: multiplier<<format.DP2DFacShift | index&format.DP2DIndexMask}
}

// Mod returns a variant translated through a dead character table.
func Mod(table []byte) DeadVariant {
	return DeadVariant{Kind: format.DPFMod, Table: table}
}

type slot struct {
	strings [][]byte
	dead    []DeadVariant
	value   uint32
	tag     byte
}

// Builder lays out a layout table in a heap. Unset slots are Nop.
type Builder struct {
	err        error
	slots      [slotCount]slot
	capsable   [slotCount]bool
	repeatable [slotCount]bool
}

// NewBuilder returns a builder whose slots are all Nop.
func NewBuilder() *Builder {
	b := &Builder{}
	for i := range b.slots {
		b.slots[i] = slot{tag: format.KCFNop}
	}
	return b
}

// Err returns the first error recorded by a builder method.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(code byte, detail string, args ...any) *Builder {
	if b.err == nil {
		b.err = errors.InvalidInput(errors.PhaseFixture, []string{fmt.Sprintf("0x%02x", code)}, fmt.Sprintf(detail, args...))
	}
	return b
}

func (b *Builder) at(code byte) (*slot, bool) {
	if int(code) >= slotCount {
		b.fail(code, "raw key out of range")
		return nil, false
	}
	return &b.slots[code], true
}

// Normal sets a slot packing four characters in storage order.
func (b *Builder) Normal(code, mods byte, chars [4]byte) *Builder {
	s, ok := b.at(code)
	if !ok {
		return b
	}
	*s = slot{
		tag:   mods & (format.KCFModMask | format.KCFDownUp),
		value: uint32(chars[0])<<24 | uint32(chars[1])<<16 | uint32(chars[2])<<8 | uint32(chars[3]),
	}
	return b
}

// String sets a slot producing one string per modifier variant.
func (b *Builder) String(code, mods byte, variants ...[]byte) *Builder {
	tag := format.KCFString | mods&(format.KCFModMask|format.KCFDownUp)
	if n := format.VariantCount(tag); n != len(variants) {
		return b.fail(code, "string key needs %d variants, got %d", n, len(variants))
	}
	s, ok := b.at(code)
	if !ok {
		return b
	}
	*s = slot{tag: tag, strings: variants}
	return b
}

// Dead sets a slot with one dead descriptor per modifier variant.
func (b *Builder) Dead(code, mods byte, variants ...DeadVariant) *Builder {
	tag := format.KCFDead | mods&(format.KCFModMask|format.KCFDownUp)
	if n := format.VariantCount(tag); n != len(variants) {
		return b.fail(code, "dead key needs %d variants, got %d", n, len(variants))
	}
	s, ok := b.at(code)
	if !ok {
		return b
	}
	*s = slot{tag: tag, dead: variants}
	return b
}

// Nop clears a slot.
func (b *Builder) Nop(code byte) *Builder {
	return b.Raw(code, format.KCFNop, 0)
}

// Raw sets a slot's tag and value without interpretation.
func (b *Builder) Raw(code, tag byte, value uint32) *Builder {
	s, ok := b.at(code)
	if !ok {
		return b
	}
	*s = slot{tag: tag, value: value}
	return b
}

// Capsable marks a key as affected by caps lock.
func (b *Builder) Capsable(code byte) *Builder {
	if _, ok := b.at(code); ok {
		b.capsable[code] = true
	}
	return b
}

// Repeatable marks a key as auto-repeating.
func (b *Builder) Repeatable(code byte) *Builder {
	if _, ok := b.at(code); ok {
		b.repeatable[code] = true
	}
	return b
}

// modTableBytes is the size every dead character table is padded to: the
// largest size any dead key index requires, or the longest table given.
func (b *Builder) modTableBytes() uint32 {
	var size uint32
	for _, s := range b.slots {
		for _, v := range s.dead {
			switch v.Kind {
			case format.DPFDead:
				size = max(size, format.DeadTableBytes(v.Value))
			case format.DPFMod:
				size = max(size, uint32(len(v.Table)))
			}
		}
	}
	return size
}

// Build writes the table into heap and returns a view of it. Fixed arrays
// are allocated separately, descriptor tables in descending key order with
// alignment gaps, and the header last.
func (b *Builder) Build(heap keymapclone.Heap) (*keymap.Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	if heap == nil {
		return nil, errors.InvalidInput(errors.PhaseFixture, nil, "nil heap")
	}

	var hdr keymap.Header
	for i := format.FieldCount - 1; i >= 0; i-- {
		addr, err := heap.Alloc(format.FieldSizes[i], format.EntrySize)
		if err != nil {
			return nil, errors.AllocationFailed(errors.PhaseFixture, format.FieldSizes[i], format.EntrySize, err)
		}
		hdr[i] = addr
	}

	entries := make([]uint32, slotCount)
	modSize := b.modTableBytes()
	for i := slotCount - 1; i >= 0; i-- {
		s := b.slots[i]
		entries[i] = s.value

		var desc []byte
		var err error
		switch {
		case s.strings != nil:
			desc, err = stringTable(s.strings)
		case s.dead != nil:
			desc, err = deadTable(s.dead, modSize)
		default:
			continue
		}
		if err != nil {
			if kerr, ok := err.(*errors.Error); ok {
				kerr.Path = []string{fmt.Sprintf("0x%02x", i)}
			}
			return nil, err
		}

		addr, err := heap.Alloc(uint32(len(desc)), descAlign)
		if err != nil {
			return nil, errors.AllocationFailed(errors.PhaseFixture, uint32(len(desc)), descAlign, err)
		}
		if err := heap.Write(addr, desc); err != nil {
			return nil, errors.Wrap(errors.PhaseFixture, errors.KindOutOfBounds, err, "write descriptor table")
		}
		entries[i] = addr
	}

	for i := 0; i < slotCount; i++ {
		field, idx := format.FieldLoMap, i
		if i >= format.LoLength {
			field, idx = format.FieldHiMap, i-format.LoLength
		}
		if err := heap.WriteU32(hdr[field]+uint32(idx)*format.EntrySize, entries[i]); err != nil {
			return nil, errors.Wrap(errors.PhaseFixture, errors.KindOutOfBounds, err, "write slot value")
		}
	}

	arrays := map[int][]byte{
		format.FieldLoTypes:      make([]byte, format.LoLength),
		format.FieldHiTypes:      make([]byte, format.HiLength),
		format.FieldLoCapsable:   bitmask(b.capsable[:format.LoLength], format.LoBitmaskBytes),
		format.FieldHiCapsable:   bitmask(b.capsable[format.LoLength:], format.HiBitmaskBytes),
		format.FieldLoRepeatable: bitmask(b.repeatable[:format.LoLength], format.LoBitmaskBytes),
		format.FieldHiRepeatable: bitmask(b.repeatable[format.LoLength:], format.HiBitmaskBytes),
	}
	for i, s := range b.slots {
		if i < format.LoLength {
			arrays[format.FieldLoTypes][i] = s.tag
		} else {
			arrays[format.FieldHiTypes][i-format.LoLength] = s.tag
		}
	}
	for field, data := range arrays {
		if err := heap.Write(hdr[field], data); err != nil {
			return nil, errors.Wrap(errors.PhaseFixture, errors.KindOutOfBounds, err, "write "+format.FieldNames[field])
		}
	}

	addr, err := heap.Alloc(format.HeaderSize, format.EntrySize)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseFixture, format.HeaderSize, format.EntrySize, err)
	}
	for i, a := range hdr {
		if err := heap.WriteU32(addr+uint32(i)*4, a); err != nil {
			return nil, errors.Wrap(errors.PhaseFixture, errors.KindOutOfBounds, err, "write header")
		}
	}
	return keymap.Open(heap, addr)
}

func bitmask(bits []bool, size int) []byte {
	mask := make([]byte, size)
	for i, set := range bits {
		if set {
			mask[i/8] |= 1 << (i % 8)
		}
	}
	return mask
}

// stringTable encodes (length, offset) pairs followed by the strings.
func stringTable(variants [][]byte) ([]byte, error) {
	n := len(variants)
	table := make([]byte, 2*n)
	for i, s := range variants {
		if len(s) > format.MaxOffset {
			return nil, errors.InvalidInput(errors.PhaseFixture, nil, fmt.Sprintf("string variant %d longer than 255 bytes", i))
		}
		off := len(table)
		if off > format.MaxOffset {
			return nil, errors.OffsetOverflow(errors.PhaseFixture, nil, uint32(off))
		}
		table[2*i] = byte(len(s))
		table[2*i+1] = byte(off)
		table = append(table, s...)
	}
	return table, nil
}

// deadTable encodes (kind, value) pairs followed by one modSize dead
// character table per DPFMod variant.
func deadTable(variants []DeadVariant, modSize uint32) ([]byte, error) {
	n := len(variants)
	table := make([]byte, 2*n)
	for i, v := range variants {
		table[2*i] = v.Kind
		table[2*i+1] = v.Value
		if v.Kind != format.DPFMod {
			continue
		}
		off := len(table)
		if off > format.MaxOffset {
			return nil, errors.OffsetOverflow(errors.PhaseFixture, nil, uint32(off))
		}
		table[2*i+1] = byte(off)
		padded := make([]byte, modSize)
		copy(padded, v.Table)
		table = append(table, padded...)
	}
	return table, nil
}
