package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/format"
)

//go:embed layouts/usa.yaml
var defaultLayout []byte

// Layout is a YAML description of a layout table.
type Layout struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Keys        []Key  `yaml:"keys"`
}

// Key describes one slot. At most one of Normal, String, Dead and Nop may be
// set; a key with none of them is Nop.
type Key struct {
	Normal     []string   `yaml:"normal"`
	String     []string   `yaml:"string"`
	Dead       []DeadSpec `yaml:"dead"`
	Modifiers  []string   `yaml:"modifiers"`
	Code       int        `yaml:"code"`
	DownUp     bool       `yaml:"downup"`
	Capsable   bool       `yaml:"capsable"`
	Repeatable bool       `yaml:"repeatable"`
	Nop        bool       `yaml:"nop"`
}

// DeadSpec describes one dead descriptor variant. Exactly one field is set.
type DeadSpec struct {
	Index  *int   `yaml:"index"`
	Char   string `yaml:"char"`
	Mod    string `yaml:"mod"`
	Double []int  `yaml:"double"`
}

// Parse decodes a YAML layout description.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, errors.Wrap(errors.PhaseFixture, errors.KindInvalidData, err, "parse layout")
	}
	return &l, nil
}

// Load reads and decodes a YAML layout description.
func Load(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseFixture, errors.KindInvalidData, err, "read layout")
	}
	return Parse(data)
}

// DefaultLayout returns the embedded US layout description.
func DefaultLayout() *Layout {
	l, err := Parse(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("fixture: embedded layout: %v", err))
	}
	return l
}

// Default returns a builder for the embedded US layout.
func Default() *Builder {
	b, err := DefaultLayout().Builder()
	if err != nil {
		panic(fmt.Sprintf("fixture: embedded layout: %v", err))
	}
	return b
}

// Builder converts the description into a table builder. Characters are
// encoded as ISO 8859-1.
func (l *Layout) Builder() (*Builder, error) {
	b := NewBuilder()
	for i, k := range l.Keys {
		if err := k.apply(b); err != nil {
			if kerr, ok := err.(*errors.Error); ok {
				kerr.Path = append([]string{"keys", fmt.Sprint(i)}, kerr.Path...)
			}
			return nil, err
		}
	}
	return b, b.Err()
}

func (k Key) apply(b *Builder) error {
	if k.Code < 0 || k.Code >= slotCount {
		return k.invalid("code 0x%x out of range", k.Code)
	}
	code := byte(k.Code)

	set := 0
	for _, on := range []bool{k.Normal != nil, k.String != nil, k.Dead != nil, k.Nop} {
		if on {
			set++
		}
	}
	if set > 1 {
		return k.invalid("more than one of normal, string, dead, nop")
	}

	var mods byte
	for _, name := range k.Modifiers {
		flag, ok := format.ParseModifier(name)
		if !ok {
			return k.invalid("unknown modifier %q", name)
		}
		mods |= flag
	}
	if k.DownUp {
		mods |= format.KCFDownUp
	}

	switch {
	case k.Normal != nil:
		if len(k.Normal) > 4 {
			return k.invalid("normal key packs at most 4 characters, got %d", len(k.Normal))
		}
		var chars [4]byte
		for i, s := range k.Normal {
			ch, err := latin1Char(s)
			if err != nil {
				return k.invalid("normal character %d: %v", i, err)
			}
			chars[i] = ch
		}
		b.Normal(code, mods, chars)

	case k.String != nil:
		variants := make([][]byte, len(k.String))
		for i, s := range k.String {
			enc, err := latin1(s)
			if err != nil {
				return k.invalid("string variant %d: %v", i, err)
			}
			variants[i] = enc
		}
		b.String(code, mods, variants...)

	case k.Dead != nil:
		variants := make([]DeadVariant, len(k.Dead))
		for i, d := range k.Dead {
			v, err := d.variant()
			if err != nil {
				return k.invalid("dead variant %d: %v", i, err)
			}
			variants[i] = v
		}
		b.Dead(code, mods, variants...)

	default:
		b.Nop(code)
	}

	if k.Capsable {
		b.Capsable(code)
	}
	if k.Repeatable {
		b.Repeatable(code)
	}
	return b.Err()
}

func (k Key) invalid(detail string, args ...any) error {
	return errors.InvalidInput(errors.PhaseFixture, []string{fmt.Sprintf("0x%02x", k.Code)}, fmt.Sprintf(detail, args...))
}

func (d DeadSpec) variant() (DeadVariant, error) {
	set := 0
	for _, on := range []bool{d.Index != nil, d.Char != "", d.Mod != "", d.Double != nil} {
		if on {
			set++
		}
	}
	if set != 1 {
		return DeadVariant{}, fmt.Errorf("exactly one of index, char, mod, double must be set")
	}

	switch {
	case d.Index != nil:
		if *d.Index < 0 || *d.Index > int(format.DP2DIndexMask) {
			return DeadVariant{}, fmt.Errorf("index %d out of range 0..15", *d.Index)
		}
		return DeadIndex(byte(*d.Index)), nil
	case d.Char != "":
		ch, err := latin1Char(d.Char)
		if err != nil {
			return DeadVariant{}, err
		}
		return None(ch), nil
	case d.Mod != "":
		table, err := latin1(d.Mod)
		if err != nil {
			return DeadVariant{}, err
		}
		return Mod(table), nil
	default:
		if len(d.Double) != 2 {
			return DeadVariant{}, fmt.Errorf("double needs [multiplier, index]")
		}
		mult, idx := d.Double[0], d.Double[1]
		if mult < 1 || mult > 15 || idx < 0 || idx > 15 {
			return DeadVariant{}, fmt.Errorf("double [%d, %d] out of range", mult, idx)
		}
		return DoubleDead(byte(mult), byte(idx)), nil
	}
}

func latin1(s string) ([]byte, error) {
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not ISO 8859-1: %w", s, err)
	}
	return enc, nil
}

func latin1Char(s string) (byte, error) {
	enc, err := latin1(s)
	if err != nil {
		return 0, err
	}
	if len(enc) != 1 {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	return enc[0], nil
}
