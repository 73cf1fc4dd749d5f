// Package memory provides address spaces and allocators for layout tables.
//
// Buffer is a plain byte slice mapped at a base address. Wrapper adapts a
// wazero api.Memory. Arena is a bump allocator over any Memory region, and
// NewBlock returns an exact-size standalone heap whose addresses are byte
// offsets from the block start.
//
// All 32-bit values are big-endian.
package memory
