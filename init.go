package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/omrprep/internal/diag"
)

const (
	sentinelStart = "# omrprep:start"
	sentinelEnd   = "# omrprep:end"
	ignoreFile    = ".omrignore"
)

// defaultIgnorePatterns keep generated files and archive debris out of the
// inputs of later runs.
var defaultIgnorePatterns = []string{
	"*" + annotatedSuffix + ".png",
	"*.tmp",
	"Thumbs.db",
	"desktop.ini",
}

// runInit implements the `omrprep init` subcommand, which writes (or updates)
// the default ignore patterns in a dataset's .omrignore file.
func runInit(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("init", "[flags] [dataset-dir]",
		"Write the default omrprep ignore patterns to dataset-dir/"+ignoreFile+". The patterns\n"+
			"are wrapped in sentinel comments so they can be updated in place on later runs\n"+
			"without touching hand-written patterns. Creates the file if it does not exist.\n\n"+
			"dataset-dir defaults to the current directory.",
		stderr, &common)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	diag.SetLogger(diag.New(stderr, common.verbose))
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("%s: expected at most 1 argument, got %d", fs.Name(), fs.NArg())
	}

	section := generateSection()

	// --dry-run with no directory: just print the section itself.
	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	if err := requireDir(dir); err != nil {
		return fmt.Errorf("dataset directory: %w", err)
	}
	path := filepath.Join(dir, ignoreFile)

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote omrprep ignore patterns to %s\n", path)
	return nil
}

// generateSection returns the sentinel-wrapped block of default patterns.
func generateSection() string {
	body := "# Managed by `omrprep init`; edit patterns outside this block.\n" +
		strings.Join(defaultIgnorePatterns, "\n")
	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) == 0 {
		return section + "\n"
	}
	return content + "\n" + section + "\n"
}
