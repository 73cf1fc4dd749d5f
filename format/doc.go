// Package format defines the binary layout of keyboard layout tables.
//
// A table is a header of eight big-endian 32-bit addresses followed, in a
// cloned block, by a fixed zone of eight arrays:
//
//	lo types[64] | lo values[64*4] | lo capsable[8] | lo repeatable[8] |
//	hi types[56] | hi values[56*4] | hi capsable[7] | hi repeatable[7]
//
// Each slot pairs a one-byte type tag with a 32-bit value. The top three
// bits of the tag select the entry kind; the low bits carry modifier flags:
//
//	bits 7..5  000 Normal  001 Dead  010 String  100 Nop (only KCFNop)
//	bit  6     KCFString
//	bit  5     KCFDead
//	bit  3     KCFDownUp
//	bits 2..0  KCFControl | KCFAlt | KCFShift
//
// String and Dead slot values address descriptor tables of (byte, byte)
// pairs, one pair per modifier variant, followed by variable-length data
// addressed by one-byte offsets relative to the descriptor table start.
package format
