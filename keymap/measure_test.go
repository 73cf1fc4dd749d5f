package keymap_test

import (
	"testing"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/fixture"
	"github.com/wippyai/keymap-clone/format"
	"github.com/wippyai/keymap-clone/keymap"
)

func measureFixture() *fixture.Builder {
	return fixture.NewBuilder().
		String(0x10, format.KCFShift, []byte("abc"), []byte("d")).
		Dead(0x20, format.KCFAlt, fixture.Mod([]byte("vwxyz")), fixture.None('q')).
		Dead(0x21, 0, fixture.DeadIndex(4)).
		String(0x45, 0, []byte("xy"))
}

func TestMeasure(t *testing.T) {
	tbl := build(t, measureFixture())

	lo, err := keymap.MeasureRange(tbl, keymap.Lo)
	if err != nil {
		t.Fatalf("MeasureRange(lo): %v", err)
	}
	wantLo := keymap.Sizes{StringEntries: 2, StringBytes: 4, DeadEntries: 3, ModEntries: 1, DeadTableBytes: 5}
	if lo != wantLo {
		t.Errorf("lo = %+v, want %+v", lo, wantLo)
	}

	hi, err := keymap.MeasureRange(tbl, keymap.Hi)
	if err != nil {
		t.Fatalf("MeasureRange(hi): %v", err)
	}
	wantHi := keymap.Sizes{StringEntries: 1, StringBytes: 2}
	if hi != wantHi {
		t.Errorf("hi = %+v, want %+v", hi, wantHi)
	}

	all, err := keymap.Measure(tbl)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if all != lo.Merge(hi) {
		t.Errorf("Measure = %+v, want merge %+v", all, lo.Merge(hi))
	}
	// 3 string pairs + 6 chars + 3 dead pairs + one 5-byte dead table
	if got := all.PayloadSize(); got != 23 {
		t.Errorf("PayloadSize = %d, want 23", got)
	}
	if got := keymap.BlockSize(all); got != format.HeaderSize+format.TablesSize+23 {
		t.Errorf("BlockSize = %d", got)
	}
}

func TestMeasure_DoubleDead(t *testing.T) {
	tbl := build(t, fixture.NewBuilder().
		Dead(0x20, 0, fixture.DoubleDead(3, 4)).
		Dead(0x21, 0, fixture.DeadIndex(9)))

	s, err := keymap.Measure(tbl)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if s.DeadTableBytes != 12 {
		t.Errorf("DeadTableBytes = %d, want 12", s.DeadTableBytes)
	}
}

func TestSizes_PayloadSizeWith(t *testing.T) {
	s := keymap.Sizes{StringEntries: 1, StringBytes: 3, DeadEntries: 2, ModEntries: 2, DeadTableBytes: 4}
	if got := s.PayloadSizeWith(10); got != 2+3+4+20 {
		t.Errorf("PayloadSizeWith(10) = %d", got)
	}
	if got := s.PayloadSize(); got != 2+3+4+8 {
		t.Errorf("PayloadSize = %d", got)
	}
}

func TestMeasure_UnknownDeadKind(t *testing.T) {
	tbl := build(t, fixture.NewBuilder().Dead(0x20, 0, fixture.None('a')))

	entries, err := tbl.Entries(keymap.Lo)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if err := tbl.Memory().WriteU8(entries[0x20], 0x04); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}

	_, err = keymap.Measure(tbl)
	if errors.KindOf(err) != errors.KindProtocolViolation {
		t.Fatalf("expected protocol violation, got %v", err)
	}
	if kerr := err.(*errors.Error); kerr.Phase != errors.PhaseMeasure {
		t.Errorf("phase = %s", kerr.Phase)
	}
}
