// Package keymapclone clones keyboard layout tables into independent,
// compact copies and installs them as the active layout.
//
// A layout table maps raw scan codes to characters under every modifier
// combination. It is a self-referential binary structure: a header of eight
// addresses points at fixed-size type, value, capsable and repeatable
// arrays, and String and Dead slot values point at variable-length
// descriptor tables. Cloning measures the exact payload the copy needs,
// allocates one contiguous block and relocates every reference into it.
//
// # Architecture Overview
//
//	keymapclone/         Root package with Memory, Allocator and Heap interfaces
//	├── format/          Binary format constants and the entry classifier
//	├── keymap/          Table view, traversal, measure, copy, clone and dump passes
//	├── memory/          Byte buffers, wazero memory adapter and bump arenas
//	├── fixture/         Layout builders and YAML layout descriptions
//	├── platform/        Simulated keymap service backed by wazero linear memory
//	├── internal/binary  Encoder for the platform's memory-only wasm module
//	├── errors/          Structured error types
//	└── cmd/keymapclone  Demonstration CLI (acquire, dump, clone, dump, install)
//
// # Quick Start
//
// Clone the active layout and install the copy:
//
//	sys, err := platform.Boot(ctx, nil, fixture.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sys.Close(ctx)
//
//	src, err := platform.AcquireActive(ctx, sys)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dup, err := keymap.Clone(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := platform.Install(ctx, sys, dup); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Every failure is a typed *errors.Error carrying a Phase and a Kind:
//
//	var kerr *errors.Error
//	if stderrors.As(err, &kerr) && kerr.Kind == errors.KindIntegrityViolation {
//	    log.Printf("measure and copy disagree: %v", kerr)
//	}
//
// Clone never returns a partially written table.
package keymapclone
