package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/keymap-clone/fixture"
	"github.com/wippyai/keymap-clone/keymap"
	"github.com/wippyai/keymap-clone/platform"
)

type options struct {
	layout      string
	addresses   bool
	interactive bool
	noInstall   bool
}

// report holds what the demonstration sequence produced.
type report struct {
	sourceDump  string
	cloneDump   string
	sourceAddrs string
	cloneAddrs  string
	installed   string
	sizes       keymap.Sizes
	blockSize   uint32
}

func main() {
	var (
		layoutFile  = flag.String("layout", "", "YAML layout to boot the system with (default: embedded US layout)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		addresses   = flag.Bool("addresses", false, "Print table addresses before each dump")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		noInstall   = flag.Bool("no-install", false, "Do not install the clone as the active table")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		keymap.SetLogger(l)
		platform.SetLogger(l)
	}

	opts := options{
		layout:      *layoutFile,
		addresses:   *addresses,
		interactive: *interactive,
		noInstall:   *noInstall,
	}

	rep, err := run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.interactive {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if err := runInteractive(rep); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		fmt.Fprintln(os.Stderr, "stdout is not a terminal, printing dumps instead")
	}
	printReport(os.Stdout, rep, opts)
}

func loadSeed(path string) (*fixture.Builder, error) {
	if path == "" {
		return fixture.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	layout, err := fixture.Load(f)
	if err != nil {
		return nil, err
	}
	return layout.Builder()
}

// run boots a system, clones its active table, checks the clone against
// the source and installs it.
func run(ctx context.Context, opts options) (*report, error) {
	seed, err := loadSeed(opts.layout)
	if err != nil {
		return nil, err
	}

	sys, err := platform.Boot(ctx, nil, seed)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	defer sys.Close(ctx)

	src, err := platform.AcquireActive(ctx, sys)
	if err != nil {
		return nil, err
	}
	sizes, err := keymap.Measure(src)
	if err != nil {
		return nil, err
	}

	rep := &report{
		sizes:       sizes,
		blockSize:   keymap.BlockSize(sizes),
		sourceAddrs: keymap.Addresses(src),
	}
	if rep.sourceDump, err = keymap.Dump(src, sizes.DeadTableBytes); err != nil {
		return nil, err
	}

	clone, err := keymap.Clone(src)
	if err != nil {
		return nil, err
	}
	rep.cloneAddrs = keymap.Addresses(clone)
	if rep.cloneDump, err = keymap.Dump(clone, sizes.DeadTableBytes); err != nil {
		return nil, err
	}

	eq, err := keymap.Equal(src, clone)
	if err != nil {
		return nil, err
	}
	if !eq {
		return nil, fmt.Errorf("clone differs from source")
	}

	if opts.noInstall {
		return rep, nil
	}

	installed, err := platform.Install(ctx, sys, clone)
	if err != nil {
		return nil, fmt.Errorf("install: %w", err)
	}
	active, err := platform.AcquireActive(ctx, sys)
	if err != nil {
		return nil, err
	}
	if active.Addr() != installed.Addr() {
		return nil, fmt.Errorf("active table at 0x%x, installed at 0x%x", active.Addr(), installed.Addr())
	}
	if eq, err := keymap.Equal(active, clone); err != nil {
		return nil, err
	} else if !eq {
		return nil, fmt.Errorf("installed table differs from clone")
	}
	rep.installed = keymap.Addresses(active)
	return rep, nil
}

func printReport(w io.Writer, rep *report, opts options) {
	fmt.Fprintln(w, "== source ==")
	if opts.addresses {
		fmt.Fprint(w, rep.sourceAddrs)
	}
	fmt.Fprint(w, rep.sourceDump)

	fmt.Fprintln(w, "== clone ==")
	if opts.addresses {
		fmt.Fprint(w, rep.cloneAddrs)
	}
	fmt.Fprint(w, rep.cloneDump)

	s := rep.sizes
	fmt.Fprintf(w, "\nblock %d bytes: %d string variants (%d chars), %d dead variants, %d mod tables of %d bytes\n",
		rep.blockSize, s.StringEntries, s.StringBytes, s.DeadEntries, s.ModEntries, s.DeadTableBytes)

	if rep.installed != "" {
		fmt.Fprintln(w, "clone installed as active table")
		if opts.addresses {
			fmt.Fprint(w, rep.installed)
		}
	}
}
