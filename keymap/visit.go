package keymap

import (
	"fmt"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

// Visitor receives every slot of a table. The accumulator A carries all
// results; a non-nil error aborts the traversal.
type Visitor[A any] interface {
	// Normal receives a slot whose value packs up to four characters.
	Normal(acc A, rawKey, tag byte, entry uint32) error
	// String receives a slot whose value addresses a string descriptor table
	// of n (length, offset) pairs.
	String(acc A, rawKey byte, n int, desc Descriptor) error
	// Dead receives a slot whose value addresses a dead descriptor table of
	// n (kind, value) pairs.
	Dead(acc A, rawKey byte, n int, desc Descriptor) error
	// Nop receives a slot that produces nothing.
	Nop(acc A, rawKey, tag byte, entry uint32) error
}

// Visit walks the low range, then the high range.
func Visit[A any](t *Table, acc A, v Visitor[A]) error {
	for _, r := range Ranges {
		if err := VisitRange(t, r, acc, v); err != nil {
			return err
		}
	}
	return nil
}

// VisitRange walks one range in ascending raw key order. Each slot is
// classified before its callback runs, so a malformed tag aborts the walk
// without touching the accumulator for that slot.
func VisitRange[A any](t *Table, r Range, acc A, v Visitor[A]) error {
	types, err := t.Types(r)
	if err != nil {
		return err
	}
	entries, err := t.Entries(r)
	if err != nil {
		return err
	}

	rawKey := r.Base()
	for i, tag := range types {
		kind, n, err := format.Classify(tag)
		if err != nil {
			return withSlot(err, r, rawKey)
		}

		entry := entries[i]
		switch kind {
		case format.KindNormal:
			err = v.Normal(acc, rawKey, tag, entry)
		case format.KindDead:
			err = v.Dead(acc, rawKey, n, NewDescriptor(t.mem, entry))
		case format.KindString:
			err = v.String(acc, rawKey, n, NewDescriptor(t.mem, entry))
		case format.KindNop:
			err = v.Nop(acc, rawKey, tag, entry)
		}
		if err != nil {
			return withSlot(err, r, rawKey)
		}
		rawKey++
	}
	return nil
}

// slotPath names a slot in error paths.
func slotPath(r Range, rawKey byte) []string {
	return []string{r.String(), fmt.Sprintf("0x%02x", rawKey)}
}

// withSlot fills in the slot path of a structured error that has none.
func withSlot(err error, r Range, rawKey byte) error {
	if kerr, ok := err.(*errors.Error); ok && len(kerr.Path) == 0 {
		kerr.Path = slotPath(r, rawKey)
	}
	return err
}
