package keymap

import (
	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

// Cursor is the write state of a copy pass into a destination block.
type Cursor struct {
	Entry          uint32 // address of the next slot value to write
	Buffer         uint32 // address of the next free payload byte
	DeadTableBytes uint32 // bytes copied per DPF_MOD variant
}

// copier appends a relocated copy of every descriptor table it visits to
// the destination payload and writes slot values through the cursor.
type copier struct {
	dst keymapclone.Memory
}

func (c copier) Normal(cur *Cursor, _ byte, _ byte, entry uint32) error {
	return c.putEntry(cur, entry)
}

func (c copier) Nop(cur *Cursor, _ byte, _ byte, entry uint32) error {
	return c.putEntry(cur, entry)
}

func (c copier) putEntry(cur *Cursor, entry uint32) error {
	if err := c.dst.WriteU32(cur.Entry, entry); err != nil {
		return errors.Wrap(errors.PhaseCopy, errors.KindOutOfBounds, err, "write slot value")
	}
	cur.Entry += format.EntrySize
	return nil
}

// String copies a string descriptor table. Entering the variant loop the
// destination is arranged as
//
//	start                  cur.Buffer
//	  |                        |
//	  v                        v
//	  +------------------------+---------------------+
//	  |  (len, off) * n        |  char data (Σ len)  |
//	  +------------------------+---------------------+
func (c copier) String(cur *Cursor, _ byte, n int, src Descriptor) error {
	start := cur.Buffer
	if err := c.putEntry(cur, start); err != nil {
		return err
	}
	pairs, err := src.Bytes(0, uint32(n)*2)
	if err != nil {
		return err
	}
	out := make([]byte, len(pairs))
	cur.Buffer += uint32(len(pairs))

	for i := 0; i < n; i++ {
		length, srcOff := pairs[2*i], pairs[2*i+1]
		off := cur.Buffer - start
		if off > format.MaxOffset {
			return errors.OffsetOverflow(errors.PhaseCopy, nil, off)
		}
		out[2*i] = length
		out[2*i+1] = byte(off)

		chars, err := src.Bytes(uint32(srcOff), uint32(length))
		if err != nil {
			return err
		}
		if err := c.write(cur.Buffer, chars); err != nil {
			return err
		}
		cur.Buffer += uint32(length)
	}
	return c.write(start, out)
}

// Dead copies a dead descriptor table. DPF_NONE and DPF_DEAD values are
// copied verbatim; each DPF_MOD variant gets a dead table of exactly
// cur.DeadTableBytes appended after the pairs, in variant order.
func (c copier) Dead(cur *Cursor, _ byte, n int, src Descriptor) error {
	start := cur.Buffer
	if err := c.putEntry(cur, start); err != nil {
		return err
	}
	pairs, err := src.Bytes(0, uint32(n)*2)
	if err != nil {
		return err
	}
	out := make([]byte, len(pairs))
	cur.Buffer += uint32(len(pairs))

	for i := 0; i < n; i++ {
		kind, value := pairs[2*i], pairs[2*i+1]
		out[2*i] = kind

		switch kind {
		case format.DPFNone, format.DPFDead:
			out[2*i+1] = value
		case format.DPFMod:
			off := cur.Buffer - start
			if off > format.MaxOffset {
				return errors.OffsetOverflow(errors.PhaseCopy, nil, off)
			}
			out[2*i+1] = byte(off)

			table, err := src.Bytes(uint32(value), cur.DeadTableBytes)
			if err != nil {
				return err
			}
			if err := c.write(cur.Buffer, table); err != nil {
				return err
			}
			cur.Buffer += cur.DeadTableBytes
		default:
			return errors.ProtocolViolation(errors.PhaseCopy, nil, kind, "unknown dead descriptor kind")
		}
	}
	return c.write(start, out)
}

func (c copier) write(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := c.dst.Write(addr, data); err != nil {
		return errors.Wrap(errors.PhaseCopy, errors.KindOutOfBounds, err, "write payload")
	}
	return nil
}
