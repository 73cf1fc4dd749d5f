package keymap

import (
	"go.uber.org/zap"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
	"github.com/wippyai/keymap-clone/memory"
)

// blockAlign keeps the slot value arrays of a clone 4-byte aligned.
const blockAlign = 4

// BlockSize returns the size of the contiguous block a clone of a table
// with the given measurement occupies.
func BlockSize(s Sizes) uint32 {
	return format.HeaderSize + format.TablesSize + s.PayloadSize()
}

// Clone copies src into a freshly allocated standalone block. Every
// reference inside the clone is a byte offset from the block start, and
// the clone shares no storage with src.
func Clone(src *Table) (*Table, error) {
	return clone(src, func(size uint32) (keymapclone.Heap, error) {
		return memory.NewBlock(size), nil
	})
}

// CloneInto copies src into one block allocated from heap.
func CloneInto(src *Table, heap keymapclone.Heap) (*Table, error) {
	if heap == nil {
		return nil, errors.InvalidInput(errors.PhaseClone, nil, "nil heap")
	}
	return clone(src, func(uint32) (keymapclone.Heap, error) {
		return heap, nil
	})
}

func clone(src *Table, acquire func(size uint32) (keymapclone.Heap, error)) (*Table, error) {
	if src == nil {
		return nil, errors.InvalidInput(errors.PhaseClone, nil, "nil source table")
	}

	// One measurement pass over the whole source, kept per range so the
	// payload cursor can be checked after each range.
	var perRange [len(Ranges)]Sizes
	for _, r := range Ranges {
		s, err := MeasureRange(src, r)
		if err != nil {
			return nil, err
		}
		perRange[r] = s
	}
	sizes := perRange[Lo].Merge(perRange[Hi])
	size := BlockSize(sizes)

	Logger().Debug("measured layout table",
		zap.Uint32("string_entries", sizes.StringEntries),
		zap.Uint32("string_bytes", sizes.StringBytes),
		zap.Uint32("dead_entries", sizes.DeadEntries),
		zap.Uint32("mod_entries", sizes.ModEntries),
		zap.Uint32("dead_table_bytes", sizes.DeadTableBytes),
		zap.Uint32("block_size", size))

	heap, err := acquire(size)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseClone, size, blockAlign, err)
	}
	base, err := heap.Alloc(size, blockAlign)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseClone, size, blockAlign, err)
	}

	dst, err := fill(src, heap, base, sizes, perRange)
	if err != nil {
		heap.Free(base, size, blockAlign)
		Logger().Debug("clone aborted", zap.Error(err))
		return nil, err
	}
	return dst, nil
}

// fill writes the clone into the block at base. The block is zeroed first,
// the header is pointed at the fixed zone, pointer-free arrays are copied
// verbatim and the copy pass relocates the slot values and payload.
func fill(src *Table, heap keymapclone.Heap, base uint32, sizes Sizes, perRange [len(Ranges)]Sizes) (*Table, error) {
	size := BlockSize(sizes)
	if err := heap.Write(base, make([]byte, size)); err != nil {
		return nil, errors.Wrap(errors.PhaseClone, errors.KindAllocation, err, "zero block")
	}

	tables := base + format.HeaderSize
	var hdr Header
	for i := range hdr {
		hdr[i] = tables + format.FieldOffsets[i]
		if err := heap.WriteU32(base+uint32(i)*4, hdr[i]); err != nil {
			return nil, errors.Wrap(errors.PhaseClone, errors.KindOutOfBounds, err, "write header")
		}
	}

	for i := range hdr {
		if i == format.FieldLoMap || i == format.FieldHiMap {
			continue
		}
		data, err := src.field(i)
		if err != nil {
			return nil, err
		}
		if err := heap.Write(hdr[i], data); err != nil {
			return nil, errors.Wrap(errors.PhaseClone, errors.KindOutOfBounds, err, "copy fixed array")
		}
	}

	dst := &Table{mem: heap, addr: base, hdr: hdr}
	payloadStart := tables + format.TablesSize
	cur := &Cursor{
		Buffer:         payloadStart,
		DeadTableBytes: sizes.DeadTableBytes,
	}
	cp := copier{dst: heap}

	wantBuffer := payloadStart
	for _, r := range Ranges {
		cur.Entry = dst.MapAddr(r)
		if err := VisitRange[*Cursor](src, r, cur, cp); err != nil {
			return nil, err
		}

		wantEntry := dst.MapAddr(r) + uint32(r.Len())*format.EntrySize
		if cur.Entry != wantEntry {
			return nil, errors.IntegrityViolation(errors.PhaseClone, []string{r.String()}, "value cursor", wantEntry, cur.Entry)
		}
		wantBuffer += perRange[r].PayloadSizeWith(sizes.DeadTableBytes)
		if cur.Buffer != wantBuffer {
			return nil, errors.IntegrityViolation(errors.PhaseClone, []string{r.String()}, "payload cursor", wantBuffer, cur.Buffer)
		}
	}

	if end := payloadStart + sizes.PayloadSize(); cur.Buffer != end {
		return nil, errors.IntegrityViolation(errors.PhaseClone, nil, "payload cursor", end, cur.Buffer)
	}

	Logger().Debug("cloned layout table",
		zap.Uint32("base", base),
		zap.Uint32("payload", cur.Buffer-payloadStart))
	return dst, nil
}
