package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/graph"
	"github.com/phobologic/omrprep/internal/mask"
	"github.com/phobologic/omrprep/internal/render"
)

func runSymbols(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("symbols", "[flags] <raw-dir> <dest-dir>",
		"Render the mask of every MUSCIMA++ v2.0 node as a black-on-white image in\n"+
			"dest-dir/<class>/<unique-id>.png.",
		stderr, &common)

	if err := parseFlags(fs, args, 2, stderr, &common); err != nil {
		return err
	}
	raw, dest := fs.Arg(0), fs.Arg(1)

	ds, err := dataset.Lookup("muscima_pp_v2")
	if err != nil {
		return err
	}
	if err := requireDir(raw); err != nil {
		return fmt.Errorf("raw directory: %w", err)
	}
	annDir := dataset.Path(raw, ds.Annotations)
	files, err := discover.Files(annDir, ds.Patterns()...)
	if err != nil {
		return fmt.Errorf("discovering annotations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no annotation files found in %s", annDir)
	}

	var written atomic.Int64
	err = processConcurrent(len(files), common.workers, func(i int) error {
		nodes, err := graph.ReadNodes(filepath.Join(annDir, files[i].Path), graph.ReadOptions{NormalizeClassNames: true})
		if err != nil {
			return err
		}
		for j := range nodes {
			n := &nodes[j]
			img, err := mask.SymbolBitmap(n)
			if err != nil {
				diag.Logger().Warn("skipping node", "id", n.UniqueID, "class", n.ClassName, "err", err)
				continue
			}
			if err := render.SavePNG(img, export.New(dest, n.ClassName, n.UniqueID, "png").FullPath()); err != nil {
				return err
			}
			written.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "rendered %d symbols from %d pages into %s\n", written.Load(), len(files), dest)
	return nil
}
