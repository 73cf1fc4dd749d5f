package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	keymapclone "github.com/wippyai/keymap-clone"
	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/internal/binary"
	"github.com/wippyai/keymap-clone/keymap"
	"github.com/wippyai/keymap-clone/memory"
)

// Seed builds the table a system starts with.
type Seed interface {
	Build(heap keymapclone.Heap) (*keymap.Table, error)
}

// System is a simulated host whose keymap service keeps the active layout
// table in a wazero linear memory.
type System struct {
	runtime wazero.Runtime
	module  api.Module
	heap    *memory.Arena
	cfg     Config

	mu     sync.Mutex
	open   int
	closed bool
}

// Boot starts a system and installs the table built by seed as the active
// one. A nil seed leaves no table active.
func Boot(ctx context.Context, cfg *Config, seed Seed) (*System, error) {
	c := cfg.withDefaults()
	if c.MemoryLimitPages < c.Pages {
		return nil, errors.InvalidInput(errors.PhasePlatform, nil,
			fmt.Sprintf("memory limit %d pages below initial %d pages", c.MemoryLimitPages, c.Pages))
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(c.MemoryLimitPages))

	compiled, err := runtime.CompileModule(ctx, binary.MemoryModule("memory", c.Pages, c.MemoryLimitPages))
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Unavailable("compile memory module", err)
	}
	module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("keymap"))
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Unavailable("instantiate memory module", err)
	}
	mem := module.ExportedMemory("memory")
	if mem == nil {
		runtime.Close(ctx)
		return nil, errors.Unavailable("export memory", fmt.Errorf("module exports no memory"))
	}

	s := &System{
		runtime: runtime,
		module:  module,
		heap:    memory.NewArena(memory.WrapMemory(mem), heapStart, mem.Size()),
		cfg:     c,
	}

	Logger().Debug("system booted",
		zap.Uint32("pages", c.Pages),
		zap.Uint32("memory_limit_pages", c.MemoryLimitPages),
		zap.Uint32("version", c.Version))

	if seed != nil {
		t, err := seed.Build(s.heap)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		if err := s.setActive(t.Addr()); err != nil {
			s.Close(ctx)
			return nil, err
		}
		Logger().Debug("seed table installed", zap.Uint32("addr", t.Addr()))
	}
	return s, nil
}

// Target returns the heap tables must live in to become active.
func (s *System) Target() keymapclone.Heap {
	return s.heap
}

// Memory returns the system address space.
func (s *System) Memory() keymapclone.Memory {
	return s.heap
}

// Version returns the keymap library version the system offers.
func (s *System) Version() uint32 {
	return s.cfg.Version
}

// OpenLibrary opens a handle to the named library. The library must exist
// and offer at least the requested version.
func (s *System) OpenLibrary(name string, version uint32) (*Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := fmt.Sprintf("open %s v%d", name, version)
	switch {
	case s.closed:
		return nil, errors.Unavailable(op, fmt.Errorf("system closed"))
	case name != LibraryName:
		return nil, errors.Unavailable(op, errors.NotFound(errors.PhasePlatform, "library", name))
	case version > s.cfg.Version:
		return nil, errors.Unavailable(op, fmt.Errorf("version %d available", s.cfg.Version))
	}

	s.open++
	Logger().Debug("library opened", zap.String("name", name), zap.Uint32("version", version), zap.Int("open", s.open))
	return &Library{sys: s}, nil
}

// OpenHandles returns the number of library handles not yet closed.
func (s *System) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Close shuts the system down. Open library handles become unusable.
func (s *System) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	Logger().Debug("system closed")
	return s.runtime.Close(ctx)
}

func (s *System) active() (uint32, error) {
	addr, err := s.heap.ReadU32(activeSlot)
	if err != nil {
		return 0, errors.Wrap(errors.PhasePlatform, errors.KindOutOfBounds, err, "read active table pointer")
	}
	return addr, nil
}

func (s *System) setActive(addr uint32) error {
	if err := s.heap.WriteU32(activeSlot, addr); err != nil {
		return errors.Wrap(errors.PhasePlatform, errors.KindOutOfBounds, err, "write active table pointer")
	}
	return nil
}
