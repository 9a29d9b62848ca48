package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/phobologic/omrprep/internal/audiveris"
	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
)

func runAudiveris(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("audiveris", "[flags] <raw-dir> <dest-dir>",
		"Crop every symbol of the Audiveris OMR pages in raw-dir into\n"+
			"dest-dir/<shape>/<page><n>.png with a one pixel margin.",
		stderr, &common)

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	raw, dest := fs.Arg(0), fs.Arg(1)

	ds, err := dataset.Lookup("audiveris")
	if err != nil {
		return err
	}
	pairs, err := pagePairs(raw, ds)
	if err != nil {
		return err
	}

	counts := make([]int, len(pairs))
	err = processConcurrent(len(pairs), common.workers, func(i int) error {
		n, err := audiveris.Extract(
			filepath.Join(raw, pairs[i].Annotation.Path),
			filepath.Join(raw, pairs[i].Image.Path),
			dest)
		counts[i] = n
		diag.Logger().Debug("cropped symbols", "page", pairs[i].Annotation.Path, "symbols", n)
		return err
	})
	if err != nil {
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	_, _ = fmt.Fprintf(stdout, "extracted %d symbols from %d pages into %s\n", total, len(pairs), dest)
	return nil
}
