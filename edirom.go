package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/edirom"
)

func runEdirom(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("edirom", "[flags] <dataset-dir>",
		"Convert the measure zones of every Edirom MEI file in dataset-dir into one JSON\n"+
			"file per page, written to a directory named after the MEI file.",
		stderr, &common)

	if err := parseFlags(fs, args, 1, stderr, &common); err != nil {
		return err
	}
	root := fs.Arg(0)

	ds, err := dataset.Lookup("edirom")
	if err != nil {
		return err
	}
	if err := requireDir(root); err != nil {
		return fmt.Errorf("dataset directory: %w", err)
	}
	files, err := discover.Files(root, ds.Patterns()...)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no MEI files found in %s%s", root, layoutHint(root))
	}

	counts := make([]int, len(files))
	err = processConcurrent(len(files), common.workers, func(i int) error {
		n, err := edirom.Convert(filepath.Join(root, files[i].Path))
		counts[i] = n
		diag.Logger().Debug("converted MEI file", "file", files[i].Path, "pages", n)
		return err
	})
	if err != nil {
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	_, _ = fmt.Fprintf(stdout, "wrote %d page annotations from %d MEI files\n", total, len(files))
	return nil
}
