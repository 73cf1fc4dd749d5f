// Package keymap reads, measures, clones and renders keyboard layout tables.
//
// A Table is a view of a layout table in a keymapclone.Memory. All passes are
// built on one traversal engine: Visit walks the low range then the high
// range, classifies each slot's type tag and calls the matching method of a
// Visitor with a typed accumulator.
//
// Three visitors ship with the package:
//
//	Measure  read-only; totals every size the copy needs (Sizes)
//	copier   writes slot values and relocated descriptor tables (Cursor)
//	Dump     read-only; one text line per slot
//
// Clone runs Measure, allocates one block of exactly BlockSize bytes, copies
// the fixed arrays and runs the copy visitor over each range, checking the
// value and payload cursors against the measurement after every range:
//
//	+----------------------+  base
//	| header (8 addresses) |  32B
//	+----------------------+  base + 32
//	| fixed arrays         |  630B
//	+----------------------+  base + 662
//	| descriptor tables    |  Sizes.PayloadSize()
//	+----------------------+
//
// A cursor mismatch, a malformed tag or an allocation failure aborts the
// clone; the block is released and never returned.
package keymap
