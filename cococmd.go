package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/phobologic/omrprep/internal/coco"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/measure"
	"github.com/phobologic/omrprep/internal/model"
	"github.com/phobologic/omrprep/internal/split"
)

func runCoco(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("coco", "[flags] <json-dir> <output.json>",
		"Aggregate the per-page measure annotations in json-dir into one COCO file.",
		stderr, &common)

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	jsonDir, output := fs.Arg(0), fs.Arg(1)

	if err := requireDir(jsonDir); err != nil {
		return fmt.Errorf("annotation directory: %w", err)
	}
	files, err := discover.Files(jsonDir, "*.json")
	if err != nil {
		return fmt.Errorf("discovering annotations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no measure annotations found in %s", jsonDir)
	}

	pages := make([]model.Page, len(files))
	err = processConcurrent(len(files), common.workers, func(i int) error {
		p, err := measure.ReadPage(filepath.Join(jsonDir, files[i].Path))
		pages[i] = p
		return err
	})
	if err != nil {
		return err
	}

	// Ids are assigned in file order, so pages are added sequentially.
	b := coco.NewBuilder(time.Now())
	for i, f := range files {
		b.Add(f.Base+".png", pages[i])
	}
	ds := b.Dataset()
	if err := coco.Write(output, ds); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "wrote %d images and %d annotations to %s\n", len(ds.Images), len(ds.Annotations), output)
	return nil
}

func runSplit(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("split", "[flags] <coco.json> <test-list> <output-dir>",
		"Split a COCO file into training, validation and test sets. The test set is\n"+
			"given by test-list, one image name per line; validation images are drawn\n"+
			"at random from the rest.",
		stderr, &common)

	var (
		validation int
		seed       uint64
	)
	fs.IntVar(&validation, "validation", split.DefaultValidationSize, "number of validation images")
	fs.Uint64Var(&seed, "seed", 1, "seed for drawing validation images")

	if err := parseFlags(fs, args, 3, stderr, &common); err != nil {
		return err
	}
	if validation < 0 {
		return fmt.Errorf("-validation must not be negative")
	}

	ds, err := coco.Read(fs.Arg(0))
	if err != nil {
		return err
	}
	testNames, err := split.ReadTestList(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("reading test list: %w", err)
	}

	sets := split.Split(ds, testNames, validation, rand.New(rand.NewPCG(seed, 0)))
	if err := split.Write(fs.Arg(2), sets); err != nil {
		return fmt.Errorf("writing sets: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "training: %d images, validation: %d images, testing: %d images\n",
		len(sets.Training.Images), len(sets.Validation.Images), len(sets.Testing.Images))
	return nil
}
