package keymap_test

import (
	"strings"
	"testing"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/fixture"
	"github.com/wippyai/keymap-clone/format"
	"github.com/wippyai/keymap-clone/keymap"
)

func TestDump(t *testing.T) {
	tbl := build(t, fixture.NewBuilder().
		Normal(0x01, format.KCFShift|format.KCFControl, [4]byte{'1', '!', 0x81, 0}).
		String(0x4c, format.KCFShift, []byte("\x9bA"), []byte("\x9bT")).
		Dead(0x20, format.KCFAlt|format.KCFShift,
			fixture.Mod([]byte("a\xe1\xe0")), fixture.Mod([]byte("A\xc1\xc0")),
			fixture.None('\xe6'), fixture.DeadIndex(2)).
		Raw(0x02, format.KCFNop, 0xdeadbeef))

	tests := []struct {
		name           string
		deadTableBytes uint32
		want           []string
	}{
		{
			name:           "with dead tables",
			deadTableBytes: 3,
			want: []string{
				"01: 1 ! {0x81} {0x0} [shift+control]\n",
				"02: (Nop) tag=0x80 value=0xdeadbeef\n",
				"03: (Nop) tag=0x80 value=0x00000000\n",
				"20: (Dead n=4) MOD +8 'a{0xe1}{0xe0}' MOD +11 'A{0xc1}{0xc0}' NONE '{0xe6}' DEAD 2\n",
				"4c: (String n=2) len=2 off=4 '{0x9b}A' len=2 off=6 '{0x9b}T'\n",
			},
		},
		{
			name: "offsets only",
			want: []string{
				"20: (Dead n=4) MOD +8 MOD +11 NONE '{0xe6}' DEAD 2\n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := keymap.Dump(tbl, tt.deadTableBytes)
			if err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if lines := strings.Count(out, "\n"); lines != format.LoLength+format.HiLength {
				t.Errorf("dump has %d lines", lines)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("dump missing %q", w)
				}
			}
		})
	}
}

func TestDump_UnknownDeadKind(t *testing.T) {
	tbl := build(t, fixture.NewBuilder().Dead(0x20, 0, fixture.None('a')))
	entries, err := tbl.Entries(keymap.Lo)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if err := tbl.Memory().WriteU8(entries[0x20], 0x10); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}
	if _, err := keymap.Dump(tbl, 0); errors.KindOf(err) != errors.KindProtocolViolation {
		t.Errorf("expected protocol violation, got %v", err)
	}
}

func TestAddresses(t *testing.T) {
	src := build(t, fixture.Default())
	dst := cloneOf(t, src)

	out := keymap.Addresses(dst)
	for _, want := range []string{
		"km: 0x00000000\n",
		"LoKeyMapTypes:   0x00000020-0x00000060\n",
		"HiRepeatable:    0x0000028f-0x00000296\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("addresses missing %q\n%s", want, out)
		}
	}
	if keymap.Addresses(src) == out {
		t.Error("source and clone share addresses")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, tbl *keymap.Table)
	}{
		{
			name: "type tag",
			mutate: func(t *testing.T, tbl *keymap.Table) {
				if err := tbl.Memory().WriteU8(tbl.TypesAddr(keymap.Hi)+0x20, 0x00); err != nil {
					t.Fatalf("WriteU8: %v", err)
				}
			},
		},
		{
			name: "capsable bit",
			mutate: func(t *testing.T, tbl *keymap.Table) {
				addr := tbl.Header()[format.FieldLoCapsable]
				b, err := tbl.Memory().ReadU8(addr)
				if err != nil {
					t.Fatalf("ReadU8: %v", err)
				}
				if err := tbl.Memory().WriteU8(addr, ^b); err != nil {
					t.Fatalf("WriteU8: %v", err)
				}
			},
		},
		{
			name: "normal value",
			mutate: func(t *testing.T, tbl *keymap.Table) {
				if err := tbl.Memory().WriteU32(tbl.MapAddr(keymap.Lo)+0x10*4, 0x78787878); err != nil {
					t.Fatalf("WriteU32: %v", err)
				}
			},
		},
		{
			name: "string character",
			mutate: func(t *testing.T, tbl *keymap.Table) {
				entries, err := tbl.Entries(keymap.Hi)
				if err != nil {
					t.Fatalf("Entries: %v", err)
				}
				desc := keymap.NewDescriptor(tbl.Memory(), entries[0x0c])
				_, off, err := desc.Pair(0)
				if err != nil {
					t.Fatalf("Pair: %v", err)
				}
				if err := tbl.Memory().WriteU8(desc.Addr()+uint32(off), '?'); err != nil {
					t.Fatalf("WriteU8: %v", err)
				}
			},
		},
	}

	src := build(t, fixture.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := cloneOf(t, src)
			eq, err := keymap.Equal(src, dst)
			if err != nil || !eq {
				t.Fatalf("fresh clone: eq=%v err=%v", eq, err)
			}
			tt.mutate(t, dst)
			eq, err = keymap.Equal(src, dst)
			if err != nil {
				t.Fatalf("Equal: %v", err)
			}
			if eq {
				t.Error("mutated clone still equal")
			}
		})
	}
}
