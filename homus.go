package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/parse"
	"github.com/phobologic/omrprep/internal/render"
)

// naturalMargin is the border drawn around symbols rendered at their own size.
const naturalMargin = 2

func runHomus(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("homus", "[flags] <raw-dir> <dest-dir>",
		"Render every HOMUS stroke file under raw-dir into dest-dir/<class>/<file>_<thickness>.png.",
		stderr, &common)

	var (
		thicknesses   string
		width, height int
		natural       bool
		spacing       int
		offsets       string
		random        bool
		seed          uint64
		bboxes        string
	)
	fs.StringVar(&thicknesses, "s", "3", "comma-separated stroke thicknesses, e.g. 1,2,3")
	fs.IntVar(&width, "width", 96, "canvas width in pixels")
	fs.IntVar(&height, "height", 96, "canvas height in pixels")
	fs.BoolVar(&natural, "natural", false, "draw each symbol at its own size plus a 2px margin instead of on a fixed canvas")
	fs.IntVar(&spacing, "staff-line-spacing", render.DefaultStaffLineSpacing, "distance between staff lines in pixels")
	fs.StringVar(&offsets, "offsets", "", "comma-separated vertical offsets of superimposed staff lines, e.g. 81,88,95")
	fs.BoolVar(&random, "random", false, "place symbols at random positions on the fixed canvas instead of centring them")
	fs.Uint64Var(&seed, "seed", 1, "seed for random placement")
	fs.StringVar(&bboxes, "bboxes", "", "write the bounding box of every image to this JSON file")

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
	lineOffsets, err := parseIntList(offsets)
	if err != nil {
		return fmt.Errorf("-offsets: %w", err)
	}
	if natural && len(lineOffsets) > 0 {
		return fmt.Errorf("-offsets needs a fixed canvas and cannot be combined with -natural")
	}

	ds, err := dataset.Lookup("homus")
	if err != nil {
		return err
	}
	if err := requireDir(raw); err != nil {
		return fmt.Errorf("raw directory: %w", err)
	}
	files, err := discover.Files(raw, ds.Patterns()...)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no HOMUS symbol files found in %s", raw)
	}

	var boxes *render.BoundingBoxes
	if bboxes != "" {
		boxes = render.NewBoundingBoxes()
	}

	diag.Logger().Info("rendering HOMUS symbols", "files", len(files), "thicknesses", ts, "offsets", lineOffsets)

	err = processConcurrent(len(files), common.workers, func(i int) error {
		f := files[i]
		content, err := os.ReadFile(filepath.Join(raw, f.Path))
		if err != nil {
			return err
		}
		sym, err := parse.Homus(string(content))
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		if sym == nil {
			diag.Logger().Debug("skipping empty record", "file", f.Path)
			return nil
		}

		opts := render.Options{
			StaffLineOffsets: lineOffsets,
			StaffLineSpacing: spacing,
			RandomPlacement:  random,
			Rand:             rand.New(rand.NewPCG(seed, uint64(i))),
		}
		if natural {
			opts.Margin = naturalMargin
		} else {
			opts.Width, opts.Height = width, height
		}
		for _, t := range ts {
			opts.StrokeThickness = t
			p := export.New(dest, sym.Class, f.Base, "png").WithStrokeThickness(t)
			if err := render.Homus(sym, p, opts, boxes); err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
		}
		return nil
	})

	if boxes != nil {
		if werr := boxes.WriteJSON(bboxes); werr != nil {
			return fmt.Errorf("writing bounding boxes: %w", werr)
		}
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "rendered %d HOMUS files into %s\n", len(files), dest)
	return nil
}
