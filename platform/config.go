package platform

const (
	// LibraryName is the name under which the keymap service is opened.
	LibraryName = "keymap.library"

	// RequiredVersion is the library version AcquireActive and Install ask for.
	RequiredVersion = 37

	pageSize = 65536

	// activeSlot holds the big-endian address of the active table; zero
	// means no table is active.
	activeSlot = 0x10

	// heapStart is the first address handed to the system allocator.
	heapStart = 0x100
)

// Config holds the platform configuration. A nil *Config means defaults.
type Config struct {
	// Pages is the linear memory size in 64KB pages. 0 means 1.
	Pages uint32

	// MemoryLimitPages caps linear memory in pages. 0 means Pages.
	MemoryLimitPages uint32

	// Version is the keymap library version the system offers. 0 means 40.
	Version uint32
}

func (c *Config) withDefaults() Config {
	out := Config{Pages: 1, Version: 40}
	if c != nil {
		if c.Pages > 0 {
			out.Pages = c.Pages
		}
		out.MemoryLimitPages = c.MemoryLimitPages
		if c.Version > 0 {
			out.Version = c.Version
		}
	}
	if out.MemoryLimitPages == 0 {
		out.MemoryLimitPages = out.Pages
	}
	return out
}
