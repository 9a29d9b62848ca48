package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/parse"
	"github.com/phobologic/omrprep/internal/render"
)

func runCapitan(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("capitan", "[flags] <raw-dir> <dest-dir>",
		"Render the strokes and the embedded score bitmap of every Capitan symbol into\n"+
			"dest-dir/<class>/capitan-<class>-<n>-stroke_<thickness>.png and ...-score.png.",
		stderr, &common)

	var thicknesses string
	fs.StringVar(&thicknesses, "s", "3", "comma-separated stroke thicknesses, e.g. 1,2,3")

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	raw, dest := fs.Arg(0), fs.Arg(1)

	ts, err := parseIntList(thicknesses)
	if err != nil {
		return fmt.Errorf("-s: %w", err)
	}
	if len(ts) == 0 {
		return fmt.Errorf("-s: no stroke thickness given")
	}

	ds, err := dataset.Lookup("capitan")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(dataset.Path(raw, ds.DataFile))
	if err != nil {
		return fmt.Errorf("reading Capitan data: %w", err)
	}

	var records []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			records = append(records, line)
		}
	}
	if len(records) == 0 {
		return fmt.Errorf("no Capitan symbols found in %s", dataset.Path(raw, ds.DataFile))
	}

	diag.Logger().Info("rendering Capitan symbols", "symbols", len(records), "thicknesses", ts)

	err = processConcurrent(len(records), common.workers, func(i int) error {
		sym, err := parse.Capitan(records[i])
		if err != nil {
			return fmt.Errorf("symbol %d: %w", i+1, err)
		}
		prefix := fmt.Sprintf("capitan-%s-%d", sym.Class, i+1)
		for _, t := range ts {
			p := export.New(dest, sym.Class, prefix+"-stroke", "png").WithStrokeThickness(t)
			if err := render.CapitanStroke(sym, p, t, 0); err != nil {
				return err
			}
		}
		return render.CapitanScore(sym, export.New(dest, sym.Class, prefix+"-score", "png"))
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "rendered %d Capitan symbols into %s\n", len(records), dest)
	return nil
}
