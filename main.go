// omrprep turns raw optical music recognition datasets into training material.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/phobologic/omrprep/internal/diag"
)

var version = "dev"

type command struct {
	run     func(args []string, stdout, stderr io.Writer) error
	summary string
}

var commands = map[string]command{
	"homus":     {runHomus, "render HOMUS stroke files into symbol images"},
	"capitan":   {runCapitan, "render Capitan stroke and score images"},
	"measures":  {runMeasures, "extract measure annotations from MUSCIMA++ v1"},
	"coco":      {runCoco, "aggregate measure annotations into one COCO file"},
	"split":     {runSplit, "split a COCO file into training, validation and test sets"},
	"masks":     {runMasks, "render MUSCIMA++ v2 segmentation masks"},
	"symbols":   {runSymbols, "render every MUSCIMA++ v2 node mask as a symbol image"},
	"visualize": {runVisualize, "draw measure annotations over page images"},
	"audiveris": {runAudiveris, "crop Audiveris OMR symbols out of their pages"},
	"invert":    {runInvert, "invert images and save them as PNG"},
	"rgb":       {runRGB, "rewrite PNG images as 24-bit RGB"},
	"edirom":    {runEdirom, "convert Edirom MEI measure zones into per-page JSON"},
	"init":      {runInit, "write default ignore patterns to a dataset's .omrignore"},
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("omrprep", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion bool
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: omrprep <command> [flags] [args]\n\nCommands:\n")
		for _, name := range commandNames() {
			fmt.Fprintf(stderr, "  %-10s %s\n", name, commands[name].summary)
		}
		fmt.Fprintf(stderr, "\nRun 'omrprep <command> -h' for command flags.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "omrprep %s\n", version)
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no command given")
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (available: %s)", name, strings.Join(commandNames(), ", "))
	}
	return cmd.run(fs.Args()[1:], stdout, stderr)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// commonFlags are registered on every subcommand.
type commonFlags struct {
	workers int
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&c.workers, "workers", 0, "number of files processed in parallel (default GOMAXPROCS)")
	fs.BoolVar(&c.verbose, "v", false, "log every written file")
}

// newFlagSet returns a subcommand flag set whose usage text starts with
// synopsis and description.
func newFlagSet(name, synopsis, description string, stderr io.Writer, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("omrprep "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: omrprep %s %s\n\n%s\n\nFlags:\n", name, synopsis, description)
		fs.PrintDefaults()
	}
	common.register(fs)
	return fs
}

// parseFlags parses args, installs the logger and checks the positional
// argument count.
func parseFlags(fs *flag.FlagSet, args []string, want int, stderr io.Writer, common *commonFlags) error {
	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	diag.SetLogger(diag.New(stderr, common.verbose))
	if fs.NArg() != want {
		fs.Usage()
		return fmt.Errorf("%s: expected %d arguments, got %d", fs.Name(), want, fs.NArg())
	}
	return nil
}

// requireDir returns an error unless path is an existing directory.
func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}
	return nil
}

// parseIntList parses a comma-separated list such as "1,2,3".
func parseIntList(s string) ([]int, error) {
	var values []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid list value %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// processConcurrent runs task for every index in [0, n) on a bounded pool of
// goroutines. All tasks run even when some fail; the failures are reported
// together in index order.
func processConcurrent(n, workers int, task func(i int) error) error {
	if n == 0 {
		return nil
	}

	type result struct {
		index int
		err   error
	}

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > n {
		numWorkers = n
	}

	work := make(chan int, n)
	results := make(chan result, n)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results <- result{index: idx, err: task(idx)}
			}
		}()
	}

	for i := range n {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	errs := make([]error, n)
	for r := range results {
		errs[r.index] = r.err
	}

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(failed), n, errors.Join(failed...))
	}
	return nil
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-s": true, "--s": true,
	"-width": true, "--width": true,
	"-height": true, "--height": true,
	"-staff-line-spacing": true, "--staff-line-spacing": true,
	"-offsets": true, "--offsets": true,
	"-seed": true, "--seed": true,
	"-bboxes": true, "--bboxes": true,
	"-validation": true, "--validation": true,
	"-type": true, "--type": true,
	"-pattern": true, "--pattern": true,
	"-workers": true, "--workers": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
