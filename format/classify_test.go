package format

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/keymap-clone/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		tag   byte
		kind  Kind
		count int
	}{
		{"normal no qualifier", KCNoQual, KindNormal, 1},
		{"normal shift alt", KCFShift | KCFAlt, KindNormal, 1},
		{"normal downup", KCFDownUp | KCFShift, KindNormal, 1},
		{"dead plain", KCFDead, KindDead, 1},
		{"dead shift", KCFDead | KCFShift, KindDead, 2},
		{"dead all", KCFDead | KCFModMask, KindDead, 8},
		{"string plain", KCFString, KindString, 1},
		{"string shift", KCFString | KCFShift, KindString, 2},
		{"string alt control", KCFString | KCFAlt | KCFControl, KindString, 4},
		{"nop", KCFNop, KindNop, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, count, err := Classify(tt.tag)
			if err != nil {
				t.Fatalf("Classify(0x%02x): %v", tt.tag, err)
			}
			if kind != tt.kind {
				t.Errorf("kind: got %v, want %v", kind, tt.kind)
			}
			if count != tt.count {
				t.Errorf("count: got %d, want %d", count, tt.count)
			}
		})
	}
}

func TestClassifyRejectsReservedPatterns(t *testing.T) {
	for _, tag := range []byte{0x60, 0x61, 0x81, 0x88, 0xa0, 0xc0, 0xe0, 0xff} {
		_, _, err := Classify(tag)
		if err == nil {
			t.Errorf("Classify(0x%02x): expected error", tag)
			continue
		}
		var kerr *errors.Error
		if !stderrors.As(err, &kerr) {
			t.Fatalf("Classify(0x%02x): error %T is not *errors.Error", tag, err)
		}
		if kerr.Kind != errors.KindProtocolViolation {
			t.Errorf("Classify(0x%02x): kind %v, want %v", tag, kerr.Kind, errors.KindProtocolViolation)
		}
		if kerr.Value != tag {
			t.Errorf("Classify(0x%02x): value %v", tag, kerr.Value)
		}
	}
}

func TestVariantCount(t *testing.T) {
	// Count depends only on how many flags are set, never which.
	want := map[int]int{0: 1, 1: 2, 2: 4, 3: 8}
	for mods := byte(0); mods <= KCFModMask; mods++ {
		set := 0
		for b := mods; b != 0; b >>= 1 {
			set += int(b & 1)
		}
		for _, base := range []byte{KCFDead, KCFString, KCFDead | KCFDownUp} {
			got := VariantCount(base | mods)
			if got != want[set] {
				t.Errorf("VariantCount(0x%02x) = %d, want %d", base|mods, got, want[set])
			}
		}
	}
}

func TestDeadTableBytes(t *testing.T) {
	tests := []struct {
		value byte
		want  uint32
	}{
		{0x00, 1},
		{0x03, 4},
		{0x0f, 16},
		{0x23, 6},  // double dead: 2 * 3
		{0x35, 15}, // 3 * 5
		{0xff, 225},
		{0x10, 0},
	}
	for _, tt := range tests {
		if got := DeadTableBytes(tt.value); got != tt.want {
			t.Errorf("DeadTableBytes(0x%02x) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	for _, name := range []string{"shift", "Alt", " control ", "ctrl"} {
		if _, ok := ParseModifier(name); !ok {
			t.Errorf("ParseModifier(%q) failed", name)
		}
	}
	if _, ok := ParseModifier("hyper"); ok {
		t.Error("ParseModifier(hyper) should fail")
	}

	names := ModifierNames(KCFString | KCFShift | KCFControl)
	if len(names) != 2 || names[0] != "shift" || names[1] != "control" {
		t.Errorf("ModifierNames = %v, want [shift control]", names)
	}
}

func TestGeometry(t *testing.T) {
	if HeaderSize != 32 {
		t.Errorf("HeaderSize = %d, want 32", HeaderSize)
	}
	if TablesSize != 630 {
		t.Errorf("TablesSize = %d, want 630", TablesSize)
	}
	var total uint32
	for i := 0; i < FieldCount; i++ {
		if FieldOffsets[i] != total {
			t.Errorf("%s offset = %d, want %d", FieldNames[i], FieldOffsets[i], total)
		}
		total += FieldSizes[i]
	}
	if total != TablesSize {
		t.Errorf("field sizes sum to %d, want %d", total, TablesSize)
	}
	if OffLoMap%4 != 0 || (HeaderSize+OffHiMap)%4 != 0 {
		t.Error("value arrays must be 4-byte aligned")
	}
}
