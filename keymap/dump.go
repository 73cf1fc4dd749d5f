package keymap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

// Dump renders every slot of t, one line per slot. deadTableBytes is the
// number of dead table bytes shown for each DPF_MOD variant; pass 0 to show
// offsets only. Addresses are never rendered, so a table and its clone dump
// identically.
func Dump(t *Table, deadTableBytes uint32) (string, error) {
	d := &dumpState{deadTableBytes: deadTableBytes}
	if err := Visit[*dumpState](t, d, dumper{}); err != nil {
		return "", err
	}
	return d.b.String(), nil
}

// Addresses renders the header of t with the address range of each array.
func Addresses(t *Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "km: 0x%08x\n", t.addr)
	for i, addr := range t.hdr {
		fmt.Fprintf(&b, "%-16s 0x%08x-0x%08x\n", format.FieldNames[i]+":", addr, addr+format.FieldSizes[i])
	}
	return b.String()
}

// Equal reports whether a and b hold the same layout: identical type tags
// and bitmasks, and identical dumps.
func Equal(a, b *Table) (bool, error) {
	for _, r := range Ranges {
		for _, get := range []func(*Table, Range) ([]byte, error){
			(*Table).Types, (*Table).Capsable, (*Table).Repeatable,
		} {
			x, err := get(a, r)
			if err != nil {
				return false, err
			}
			y, err := get(b, r)
			if err != nil {
				return false, err
			}
			if !bytes.Equal(x, y) {
				return false, nil
			}
		}
	}

	sa, err := Measure(a)
	if err != nil {
		return false, err
	}
	sb, err := Measure(b)
	if err != nil {
		return false, err
	}
	if sa != sb {
		return false, nil
	}

	da, err := Dump(a, sa.DeadTableBytes)
	if err != nil {
		return false, err
	}
	db, err := Dump(b, sb.DeadTableBytes)
	if err != nil {
		return false, err
	}
	return da == db, nil
}

type dumpState struct {
	b              strings.Builder
	deadTableBytes uint32
}

type dumper struct{}

func isPrintable(ch byte) bool {
	return ch > 0x1f && ch < 0x7f
}

func writeChar(b *strings.Builder, ch byte) {
	if isPrintable(ch) {
		b.WriteByte(ch)
	} else {
		fmt.Fprintf(b, "{0x%x}", ch)
	}
}

func writeChars(b *strings.Builder, chars []byte) {
	b.WriteByte('\'')
	for _, ch := range chars {
		writeChar(b, ch)
	}
	b.WriteByte('\'')
}

// Normal renders the four packed characters in storage order.
func (dumper) Normal(d *dumpState, rawKey, tag byte, entry uint32) error {
	fmt.Fprintf(&d.b, "%02x: ", rawKey)
	for i := 0; i < 4; i++ {
		if i > 0 {
			d.b.WriteByte(' ')
		}
		writeChar(&d.b, byte(entry>>(24-8*i)))
	}
	if mods := format.ModifierNames(tag); len(mods) > 0 {
		fmt.Fprintf(&d.b, " [%s]", strings.Join(mods, "+"))
	}
	d.b.WriteByte('\n')
	return nil
}

func (dumper) Nop(d *dumpState, rawKey, tag byte, entry uint32) error {
	fmt.Fprintf(&d.b, "%02x: (Nop) tag=0x%02x value=0x%08x\n", rawKey, tag, entry)
	return nil
}

func (dumper) String(d *dumpState, rawKey byte, n int, desc Descriptor) error {
	fmt.Fprintf(&d.b, "%02x: (String n=%d)", rawKey, n)
	for i := 0; i < n; i++ {
		length, off, err := desc.Pair(i)
		if err != nil {
			return err
		}
		chars, err := desc.Bytes(uint32(off), uint32(length))
		if err != nil {
			return err
		}
		fmt.Fprintf(&d.b, " len=%d off=%d ", length, off)
		writeChars(&d.b, chars)
	}
	d.b.WriteByte('\n')
	return nil
}

func (dumper) Dead(d *dumpState, rawKey byte, n int, desc Descriptor) error {
	fmt.Fprintf(&d.b, "%02x: (Dead n=%d)", rawKey, n)
	for i := 0; i < n; i++ {
		kind, value, err := desc.Pair(i)
		if err != nil {
			return err
		}
		switch kind {
		case format.DPFNone:
			d.b.WriteString(" NONE ")
			writeChars(&d.b, []byte{value})
		case format.DPFDead:
			fmt.Fprintf(&d.b, " DEAD %d", value)
		case format.DPFMod:
			fmt.Fprintf(&d.b, " MOD +%d", value)
			if d.deadTableBytes > 0 {
				table, err := desc.Bytes(uint32(value), d.deadTableBytes)
				if err != nil {
					return err
				}
				d.b.WriteByte(' ')
				writeChars(&d.b, table)
			}
		default:
			return errors.ProtocolViolation(errors.PhaseDump, nil, kind, "unknown dead descriptor kind")
		}
	}
	d.b.WriteByte('\n')
	return nil
}
