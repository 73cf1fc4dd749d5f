package format

// Range geometry.
const (
	LoLength       = 64   // slots in the low range
	HiLength       = 56   // slots in the high range
	LoBitmaskBytes = 8    // capsable/repeatable bytes for the low range
	HiBitmaskBytes = 7    // capsable/repeatable bytes for the high range
	LoBase         = 0x00 // first raw key of the low range
	HiBase         = 0x40 // first raw key of the high range
	EntrySize      = 4    // bytes per slot value
)

// Header holds eight 32-bit addresses in this field order.
const (
	FieldLoTypes = iota
	FieldLoMap
	FieldLoCapsable
	FieldLoRepeatable
	FieldHiTypes
	FieldHiMap
	FieldHiCapsable
	FieldHiRepeatable
	FieldCount
)

// Block geometry of a cloned table.
const (
	HeaderSize = FieldCount * 4 // 32B

	// Offsets of the fixed arrays inside the fixed zone.
	OffLoTypes      = 0
	OffLoMap        = OffLoTypes + LoLength
	OffLoCapsable   = OffLoMap + LoLength*EntrySize
	OffLoRepeatable = OffLoCapsable + LoBitmaskBytes
	OffHiTypes      = OffLoRepeatable + LoBitmaskBytes
	OffHiMap        = OffHiTypes + HiLength
	OffHiCapsable   = OffHiMap + HiLength*EntrySize
	OffHiRepeatable = OffHiCapsable + HiBitmaskBytes

	TablesSize = OffHiRepeatable + HiBitmaskBytes // 630B
)

// FieldOffsets maps each header field to its fixed-zone offset.
var FieldOffsets = [FieldCount]uint32{
	OffLoTypes, OffLoMap, OffLoCapsable, OffLoRepeatable,
	OffHiTypes, OffHiMap, OffHiCapsable, OffHiRepeatable,
}

// FieldSizes maps each header field to its array size in bytes.
var FieldSizes = [FieldCount]uint32{
	LoLength, LoLength * EntrySize, LoBitmaskBytes, LoBitmaskBytes,
	HiLength, HiLength * EntrySize, HiBitmaskBytes, HiBitmaskBytes,
}

// FieldNames are the header field names used in dumps and errors.
var FieldNames = [FieldCount]string{
	"LoKeyMapTypes", "LoKeyMap", "LoCapsable", "LoRepeatable",
	"HiKeyMapTypes", "HiKeyMap", "HiCapsable", "HiRepeatable",
}

// Type tag flags.
const (
	KCFShift   byte = 0x01
	KCFAlt     byte = 0x02
	KCFControl byte = 0x04
	KCFDownUp  byte = 0x08
	KCFDead    byte = 0x20
	KCFString  byte = 0x40
	KCFNop     byte = 0x80

	KCNoQual   byte = 0x00
	KCFModMask      = KCFShift | KCFAlt | KCFControl
)

// Dead descriptor kinds.
const (
	DPFNone byte = 0x00 // value is a literal character
	DPFMod  byte = 0x01 // value is an offset to a dead character table
	DPFDead byte = 0x08 // value is a dead key index
)

// Double dead key nibbles of a DPFDead value.
const (
	DP2DIndexMask byte = 0x0f
	DP2DFacShift       = 4
)

// MaxOffset is the largest descriptor offset a one-byte field can hold.
const MaxOffset = 0xff

// MaxVariants is the variant count with every modifier flag set.
const MaxVariants = 8
