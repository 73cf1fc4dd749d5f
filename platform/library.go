package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/keymap-clone/errors"
	"github.com/wippyai/keymap-clone/keymap"
)

// Library is an open handle to the keymap service.
type Library struct {
	sys    *System
	closed bool
}

func (l *Library) check(op string) error {
	if l.closed {
		return errors.Unavailable(op, fmt.Errorf("library handle closed"))
	}
	if l.sys.closed {
		return errors.Unavailable(op, fmt.Errorf("system closed"))
	}
	return nil
}

// AskKeyMapDefault returns the active table.
func (l *Library) AskKeyMapDefault() (*keymap.Table, error) {
	l.sys.mu.Lock()
	defer l.sys.mu.Unlock()

	const op = "AskKeyMapDefault"
	if err := l.check(op); err != nil {
		return nil, err
	}
	addr, err := l.sys.active()
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, errors.Unavailable(op, fmt.Errorf("no active layout table"))
	}
	return keymap.Open(l.sys.heap, addr)
}

// SetKeyMapDefault makes t the active table. t must live in the system
// memory; see Install for tables that do not.
func (l *Library) SetKeyMapDefault(t *keymap.Table) error {
	l.sys.mu.Lock()
	defer l.sys.mu.Unlock()

	const op = "SetKeyMapDefault"
	if err := l.check(op); err != nil {
		return err
	}
	if t == nil {
		return errors.InvalidInput(errors.PhasePlatform, nil, "nil table")
	}
	if t.Memory() != l.sys.Memory() {
		return errors.InvalidInput(errors.PhasePlatform, nil, "table does not live in system memory")
	}
	if err := l.sys.setActive(t.Addr()); err != nil {
		return err
	}
	Logger().Debug("active table set", zap.Uint32("addr", t.Addr()))
	return nil
}

// Close releases the handle. Closing twice is a no-op.
func (l *Library) Close() {
	l.sys.mu.Lock()
	defer l.sys.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.sys.open--
	Logger().Debug("library closed", zap.Int("open", l.sys.open))
}

// AcquireActive opens the keymap library, fetches the active table and
// closes the library again.
func AcquireActive(ctx context.Context, sys *System) (*keymap.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Unavailable("acquire", err)
	}
	lib, err := sys.OpenLibrary(LibraryName, RequiredVersion)
	if err != nil {
		return nil, err
	}
	defer lib.Close()
	return lib.AskKeyMapDefault()
}

// Install makes t the active table and returns the installed table. A table
// outside the system memory is first cloned into it.
func Install(ctx context.Context, sys *System, t *keymap.Table) (*keymap.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Unavailable("install", err)
	}
	if t == nil {
		return nil, errors.InvalidInput(errors.PhasePlatform, nil, "nil table")
	}
	lib, err := sys.OpenLibrary(LibraryName, RequiredVersion)
	if err != nil {
		return nil, err
	}
	defer lib.Close()

	if t.Memory() != sys.Memory() {
		relocated, err := keymap.CloneInto(t, sys.Target())
		if err != nil {
			return nil, err
		}
		Logger().Debug("table relocated into system memory",
			zap.Uint32("from", t.Addr()), zap.Uint32("to", relocated.Addr()))
		t = relocated
	}
	if err := lib.SetKeyMapDefault(t); err != nil {
		return nil, err
	}
	return t, nil
}
