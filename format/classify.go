package format

import (
	"fmt"
	"strings"

	"github.com/wippyai/keymap-clone/errors"
)

// Kind is the entry kind selected by a type tag.
type Kind uint8

const (
	KindNormal Kind = iota
	KindDead
	KindString
	KindNop
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindDead:
		return "dead"
	case KindString:
		return "string"
	case KindNop:
		return "nop"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Classify maps a type tag to its entry kind and variant count.
//
// Normal and Nop slots carry their payload in the slot value, so their
// variant count is 1. Reserved kind patterns, and Nop-pattern tags other
// than KCFNop itself, are protocol violations.
func Classify(tag byte) (Kind, int, error) {
	switch tag >> 5 {
	case 0:
		return KindNormal, 1, nil
	case 1:
		if tag&KCFDead == 0 {
			return 0, 0, errors.ProtocolViolation(errors.PhaseClassify, nil, tag, "dead pattern without KCF_DEAD")
		}
		return KindDead, VariantCount(tag), nil
	case 2:
		if tag&KCFString == 0 {
			return 0, 0, errors.ProtocolViolation(errors.PhaseClassify, nil, tag, "string pattern without KCF_STRING")
		}
		return KindString, VariantCount(tag), nil
	default:
		if tag != KCFNop {
			return 0, 0, errors.ProtocolViolation(errors.PhaseClassify, nil, tag, "reserved kind pattern")
		}
		return KindNop, 1, nil
	}
}

// VariantCount returns the number of modifier variants a tag selects: one,
// doubled for each of shift, alt and control.
func VariantCount(tag byte) int {
	n := 1
	if tag&KCFShift != 0 {
		n <<= 1
	}
	if tag&KCFAlt != 0 {
		n <<= 1
	}
	if tag&KCFControl != 0 {
		n <<= 1
	}
	return n
}

// DeadTableBytes returns the dead character table size a DPFDead value
// requires. A non-zero high nibble marks a double dead key: multiplier in
// the high nibble, index in the low. Otherwise the value is the maximum
// index, plus one for the unprefixed key.
func DeadTableBytes(value byte) uint32 {
	if mult := value >> DP2DFacShift; mult != 0 {
		return uint32(mult) * uint32(value&DP2DIndexMask)
	}
	return uint32(value) + 1
}

var modifierNames = []struct {
	flag byte
	name string
}{
	{KCFShift, "shift"},
	{KCFAlt, "alt"},
	{KCFControl, "control"},
}

// ParseModifier returns the tag flag for a modifier name.
func ParseModifier(name string) (byte, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "ctrl" {
		name = "control"
	}
	for _, m := range modifierNames {
		if m.name == name {
			return m.flag, true
		}
	}
	return 0, false
}

// ModifierNames lists the modifier flags set in a tag, in flag order.
func ModifierNames(tag byte) []string {
	var names []string
	for _, m := range modifierNames {
		if tag&m.flag != 0 {
			names = append(names, m.name)
		}
	}
	return names
}
