package keymap

import (
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

// Sizes is the measurement of a table's descriptor payload.
type Sizes struct {
	StringEntries  uint32 // String variants; 2B (length, offset) each
	StringBytes    uint32 // characters referenced by String variants
	DeadEntries    uint32 // Dead variants; 2B (kind, value) each
	ModEntries     uint32 // DPF_MOD variants; one dead table each
	DeadTableBytes uint32 // largest dead table any DPF_DEAD variant requires
}

// PayloadSize returns the bytes needed for every descriptor table and its
// trailing data.
func (s Sizes) PayloadSize() uint32 {
	return s.PayloadSizeWith(s.DeadTableBytes)
}

// PayloadSizeWith returns the payload size using deadTableBytes per DPF_MOD
// variant instead of the measured maximum.
func (s Sizes) PayloadSizeWith(deadTableBytes uint32) uint32 {
	return s.StringEntries*2 +
		s.StringBytes +
		s.DeadEntries*2 +
		deadTableBytes*s.ModEntries
}

// Merge combines two measurements.
func (s Sizes) Merge(o Sizes) Sizes {
	return Sizes{
		StringEntries:  s.StringEntries + o.StringEntries,
		StringBytes:    s.StringBytes + o.StringBytes,
		DeadEntries:    s.DeadEntries + o.DeadEntries,
		ModEntries:     s.ModEntries + o.ModEntries,
		DeadTableBytes: max(s.DeadTableBytes, o.DeadTableBytes),
	}
}

// Measure walks the whole table and returns its payload measurement.
func Measure(t *Table) (Sizes, error) {
	var s Sizes
	err := Visit[*Sizes](t, &s, measurer{})
	return s, err
}

// MeasureRange measures one range.
func MeasureRange(t *Table, r Range) (Sizes, error) {
	var s Sizes
	err := VisitRange[*Sizes](t, r, &s, measurer{})
	return s, err
}

type measurer struct{}

func (measurer) Normal(*Sizes, byte, byte, uint32) error { return nil }

func (measurer) Nop(*Sizes, byte, byte, uint32) error { return nil }

func (measurer) String(s *Sizes, _ byte, n int, desc Descriptor) error {
	s.StringEntries += uint32(n)
	for i := 0; i < n; i++ {
		length, _, err := desc.Pair(i)
		if err != nil {
			return err
		}
		s.StringBytes += uint32(length)
	}
	return nil
}

func (measurer) Dead(s *Sizes, _ byte, n int, desc Descriptor) error {
	s.DeadEntries += uint32(n)
	for i := 0; i < n; i++ {
		kind, value, err := desc.Pair(i)
		if err != nil {
			return err
		}
		switch kind {
		case format.DPFNone:
		case format.DPFDead:
			s.DeadTableBytes = max(s.DeadTableBytes, format.DeadTableBytes(value))
		case format.DPFMod:
			s.ModEntries++
		default:
			return errors.ProtocolViolation(errors.PhaseMeasure, nil, kind, "unknown dead descriptor kind")
		}
	}
	return nil
}
