package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/visualize"
)

const annotatedSuffix = "_annotated"

func runVisualize(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("visualize", "[flags] <image-dir> <json-dir>",
		"Draw the measure annotations of every page over its image and save the result\n"+
			"as <image>_annotated.png next to it.",
		stderr, &common)

	var noSystems, noMeasures, noStaves bool
	fs.BoolVar(&noSystems, "no-system-measures", false, "do not draw system measures")
	fs.BoolVar(&noMeasures, "no-stave-measures", false, "do not draw stave measures")
	fs.BoolVar(&noStaves, "no-staves", false, "do not draw staves")

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	imageDir, jsonDir := fs.Arg(0), fs.Arg(1)

	for _, dir := range []string{imageDir, jsonDir} {
		if err := requireDir(dir); err != nil {
			return err
		}
	}
	found, err := discover.Files(imageDir, "*.png")
	if err != nil {
		return fmt.Errorf("discovering images: %w", err)
	}
	var images []discover.FileEntry
	for _, f := range found {
		// Skip the output of earlier runs.
		if !strings.HasSuffix(f.Base, annotatedSuffix) {
			images = append(images, f)
		}
	}
	annotations, err := discover.Files(jsonDir, "*.json")
	if err != nil {
		return fmt.Errorf("discovering annotations: %w", err)
	}
	pairs, unmatched := discover.PairByBase(annotations, images)
	for _, f := range unmatched {
		diag.Logger().Debug("no image for annotation", "file", f.Path)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no annotated images found")
	}

	opts := visualize.Options{
		SystemMeasures: !noSystems,
		StaveMeasures:  !noMeasures,
		Staves:         !noStaves,
	}
	err = processConcurrent(len(pairs), common.workers, func(i int) error {
		_, err := visualize.File(
			filepath.Join(imageDir, pairs[i].Image.Path),
			filepath.Join(jsonDir, pairs[i].Annotation.Path),
			opts)
		return err
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "annotated %d images\n", len(pairs))
	return nil
}
