package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/keymap-clone/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

func TestBuffer_ReadWrite(t *testing.T) {
	b := NewBuffer(0x1000, 16)

	if err := b.WriteU32(0x1000, 0x01020304); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	if !bytes.Equal(b.Bytes()[:4], []byte{1, 2, 3, 4}) {
		t.Errorf("WriteU32 not big-endian: %v", b.Bytes()[:4])
	}
	v, err := b.ReadU32(0x1000)
	if err != nil {
		t.Fatalf("ReadU32: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("ReadU32: got 0x%x", v)
	}

	if err := b.WriteU8(0x100f, 0xaa); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}
	u, err := b.ReadU8(0x100f)
	if err != nil || u != 0xaa {
		t.Errorf("ReadU8: got 0x%x, %v", u, err)
	}

	if err := b.Write(0x1004, []byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := b.Read(0x1004, 3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("Read: got %q", got)
	}

	// Read returns a copy.
	got[0] = 'z'
	again, _ := b.Read(0x1004, 1)
	if again[0] != 'a' {
		t.Error("Read must not alias the buffer")
	}
}

func TestBuffer_OutOfBounds(t *testing.T) {
	b := NewBuffer(0x100, 8)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"below base", func() error { _, err := b.ReadU8(0xff); return err }},
		{"past end", func() error { _, err := b.ReadU32(0x106); return err }},
		{"write past end", func() error { return b.Write(0x107, []byte{1, 2}) }},
		{"huge length", func() error { _, err := b.Read(0x100, 0xffffffff); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if errors.KindOf(err) != errors.KindOutOfBounds {
				t.Errorf("expected out_of_bounds, got %v", err)
			}
		})
	}
}

func TestArena_Alloc(t *testing.T) {
	a := NewArena(NewBuffer(0, 64), 4, 64)

	p1, err := a.Alloc(3, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p1 != 4 {
		t.Errorf("first block at %d, want 4", p1)
	}

	p2, err := a.Alloc(8, 4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p2 != 8 {
		t.Errorf("aligned block at %d, want 8", p2)
	}
	if a.Used() != 12 {
		t.Errorf("Used = %d, want 12", a.Used())
	}

	a.Free(p1, 3, 1) // not the most recent block
	if a.Used() != 12 {
		t.Errorf("Free of older block changed Used to %d", a.Used())
	}
	a.Free(p2, 8, 4)
	if a.Used() != 4 {
		t.Errorf("Free of last block: Used = %d, want 4", a.Used())
	}

	if _, err := a.Alloc(100, 1); errors.KindOf(err) != errors.KindAllocation {
		t.Errorf("expected allocation error, got %v", err)
	}
	if _, err := a.Alloc(1, 3); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("expected invalid alignment error, got %v", err)
	}
}

func TestNewBlock(t *testing.T) {
	blk := NewBlock(10)
	p, err := blk.Alloc(10, 4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p != 0 {
		t.Errorf("block base = %d, want 0", p)
	}
	if blk.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", blk.Remaining())
	}
	if _, err := blk.Alloc(1, 1); err == nil {
		t.Error("expected exhausted block")
	}
}

func TestWrapMemory_Nil(t *testing.T) {
	if WrapMemory(nil) != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestWrapper_ReadWrite(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, memoryWASM)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	defer compiled.Close(ctx)

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	defer mod.Close(ctx)

	mem := WrapMemory(mod.ExportedMemory("memory"))
	if mem == nil {
		t.Fatal("expected non-nil wrapped memory")
	}

	if err := mem.WriteU32(8, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	raw, err := mem.Read(8, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(raw, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("WriteU32 not big-endian: %x", raw)
	}
	v, err := mem.ReadU32(8)
	if err != nil || v != 0xdeadbeef {
		t.Errorf("ReadU32: got 0x%x, %v", v, err)
	}

	if err := mem.WriteU8(12, 7); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}
	if b, err := mem.ReadU8(12); err != nil || b != 7 {
		t.Errorf("ReadU8: got %d, %v", b, err)
	}

	if _, err := mem.ReadU32(65535); errors.KindOf(err) != errors.KindOutOfBounds {
		t.Errorf("expected out_of_bounds, got %v", err)
	}

	a := NewArena(mem, 16, 64)
	if _, err := a.Alloc(32, 4); err != nil {
		t.Fatalf("Alloc over wazero memory: %v", err)
	}
}
