// Package fixture builds layout tables for tests, the simulated platform and
// the CLI.
//
// A Builder lays a table out in any keymapclone.Heap, deliberately in a
// different arrangement from a clone: fixed arrays are separate blocks,
// descriptor tables are spread out in descending key order and the header
// comes last. Layouts can also be described in YAML:
//
//	name: demo
//	keys:
//	  - {code: 0x10, normal: [q, Q], modifiers: [shift]}
//	  - {code: 0x50, string: ["\x9b0~", "\x9b10~"], modifiers: [shift]}
//	  - code: 0x20
//	    modifiers: [alt]
//	    dead:
//	      - mod: "aáàâãä"
//	      - char: "æ"
//
// Characters are ISO 8859-1.
package fixture
