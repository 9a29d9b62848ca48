package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phobologic/omrprep/internal/dataset"
	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/discover"
	"github.com/phobologic/omrprep/internal/graph"
	"github.com/phobologic/omrprep/internal/imageconv"
	"github.com/phobologic/omrprep/internal/measure"
	"github.com/phobologic/omrprep/internal/model"
	"github.com/phobologic/omrprep/internal/toon"
)

func runMeasures(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("measures", "[flags] <dataset-dir>",
		"Extract staves, stave measures and system measures from every MUSCIMA++ v1.0 page\n"+
			"and write one JSON file per page to v1.0/data/json.",
		stderr, &common)

	var dedup, summary bool
	fs.BoolVar(&dedup, "dedup-separators", false, "merge overlapping measure separators of a stave before splitting")
	fs.BoolVar(&summary, "summary", false, "print a TOON summary of the extracted regions")

	if err := parseFlags(fs, args, 1, stderr, &common); err != nil {
		return err
	}
	root := fs.Arg(0)

	ds, err := dataset.Lookup("muscima_pp_v1")
	if err != nil {
		return err
	}
	pairs, err := pagePairs(root, ds)
	if err != nil {
		return err
	}

	outDir := dataset.Path(root, ds.Output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := measure.Options{DedupSeparators: dedup}
	summaries := make([]model.PageSummary, len(pairs))
	annDir, imgDir := dataset.Path(root, ds.Annotations), dataset.Path(root, ds.Images)

	err = processConcurrent(len(pairs), common.workers, func(i int) error {
		pair := pairs[i]
		nodes, err := graph.ReadNodes(filepath.Join(annDir, pair.Annotation.Path), graph.ReadOptions{NormalizeClassNames: true})
		if err != nil {
			return err
		}
		g, err := graph.New(nodes)
		if err != nil {
			return fmt.Errorf("%s: %w", pair.Annotation.Path, err)
		}
		page := measure.Extract(g, opts)
		page.Width, page.Height, err = imageconv.Size(filepath.Join(imgDir, pair.Image.Path))
		if err != nil {
			return err
		}

		name := pair.Annotation.Base + ".json"
		if err := measure.WritePage(filepath.Join(outDir, name), page); err != nil {
			return err
		}
		diag.Logger().Debug("wrote measures", "page", name, "nodes", g.Len(),
			"staves", len(page.Staves), "stave_measures", len(page.StaveMeasures), "system_measures", len(page.SystemMeasures))
		summaries[i] = model.Summarize(name, page)
		return nil
	})
	if err != nil {
		return err
	}

	if summary {
		_, _ = fmt.Fprintln(stdout, toon.Encode(&model.Report{Dataset: ds.Name, Pages: summaries}))
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "wrote %d measure annotations to %s\n", len(pairs), outDir)
	return nil
}

// pagePairs matches the annotation files of ds under root with their page
// images. Annotations without an image are logged and left out.
func pagePairs(root string, ds *dataset.Dataset) ([]discover.Pair, error) {
	if err := requireDir(root); err != nil {
		return nil, fmt.Errorf("dataset directory: %w", err)
	}
	annotations, err := discover.Files(dataset.Path(root, ds.Annotations), ds.Patterns()...)
	if err != nil {
		return nil, fmt.Errorf("discovering annotations: %w", err)
	}
	if len(annotations) == 0 {
		return nil, fmt.Errorf("no %s annotations found in %s%s",
			ds.Name, dataset.Path(root, ds.Annotations), layoutHint(dataset.Path(root, ds.Annotations)))
	}
	images, err := discover.Files(dataset.Path(root, ds.Images), "*.png")
	if err != nil {
		return nil, fmt.Errorf("discovering images: %w", err)
	}
	pairs, unmatched := discover.PairByBase(annotations, images)
	for _, f := range unmatched {
		diag.Logger().Warn("no page image for annotation, skipping", "file", f.Path)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no annotated pages found in %s", root)
	}
	return pairs, nil
}

// layoutHint names the dataset layouts whose annotation files were found
// under dir, for "nothing found" errors. It returns "" when there are none.
func layoutHint(dir string) string {
	files, err := discover.Files(dir)
	if err != nil {
		return ""
	}
	byExt := map[string][]string{}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Path))
		if _, seen := byExt[ext]; seen {
			continue
		}
		if names := dataset.ForExtension(ext); len(names) > 0 {
			byExt[ext] = names
		}
	}
	if len(byExt) == 0 {
		return ""
	}
	exts := make([]string, 0, len(byExt))
	for ext := range byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = fmt.Sprintf("%s files fit %s", ext, strings.Join(byExt[ext], ", "))
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
