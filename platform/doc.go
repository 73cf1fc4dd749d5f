// Package platform simulates the host that owns the active layout table.
//
// A System keeps its memory in a wazero linear memory instantiated from a
// memory-only module. The active table lives in that memory and a pointer
// to it sits at a fixed low address. Callers reach it through the keymap
// library:
//
//	sys, err := platform.Boot(ctx, nil, fixture.Default())
//	...
//	active, err := platform.AcquireActive(ctx, sys)
//	clone, err := keymap.Clone(active)
//	installed, err := platform.Install(ctx, sys, clone)
//
// AcquireActive and Install open the library, perform one operation and
// close it on every path. Install copies tables that live outside the
// system memory into it before activating them.
package platform
