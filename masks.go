package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/graph"
	"github.com/phobologic/omrprep/internal/imageconv"
	"github.com/phobologic/omrprep/internal/mask"
	"github.com/phobologic/omrprep/internal/render"
)

func runMasks(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("masks", "[flags] <raw-dir> <dest-dir>",
		"Render one segmentation mask per MUSCIMA++ v2.0 page into dest-dir/<page>.png.",
		stderr, &common)

	var maskType string
	fs.StringVar(&maskType, "type", "nodes_semantic", "mask type: nodes_semantic, staff_lines or staff_blob")

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	raw, dest := fs.Arg(0), fs.Arg(1)

	mode, err := mask.ParseMode(maskType)
	if err != nil {
		return fmt.Errorf("-type: %w", err)
	}

	ds, err := dataset.Lookup("muscima_pp_v2")
	if err != nil {
		return err
	}
	pairs, err := pagePairs(raw, ds)
	if err != nil {
		return err
	}

	var colors map[string]uint8
	if mode == mask.NodesSemantic {
		classes, err := graph.ReadClasses(dataset.Path(raw, ds.Classes))
		if err != nil {
			return fmt.Errorf("reading class list: %w", err)
		}
		colors = graph.ClassColors(classes)
	}

	diag.Logger().Info("rendering masks", "pages", len(pairs), "type", mode)
	annDir, imgDir := dataset.Path(raw, ds.Annotations), dataset.Path(raw, ds.Images)

	err = processConcurrent(len(pairs), common.workers, func(i int) error {
		pair := pairs[i]
		nodes, err := graph.ReadNodes(filepath.Join(annDir, pair.Annotation.Path), graph.ReadOptions{})
		if err != nil {
			return err
		}
		w, h, err := imageconv.Size(filepath.Join(imgDir, pair.Image.Path))
		if err != nil {
			return err
		}
		img := mask.Render(nodes, w, h, mode, colors)
		return render.SavePNG(img, export.New(dest, "", pair.Annotation.Base, "png").FullPath())
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "rendered %d %s masks into %s\n", len(pairs), mode, dest)
	return nil
}
