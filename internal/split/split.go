// Package split divides a COCO measure dataset into reproducible training,
// validation and test sets.
package split

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phobologic/omrprep/internal/coco"
)

// DefaultValidationSize is the number of pages held out for validation.
const DefaultValidationSize = 20

// Sets holds the three partitions. Each keeps the source's info, licenses
// and categories.
type Sets struct {
	Training   coco.Dataset
	Validation coco.Dataset
	Testing    coco.Dataset
}

// Split assigns every image named in testNames to the test set, draws
// validationSize images at random from the remainder, and puts the rest into
// training. Annotations follow their image. Image order within each set
// follows the source.
func Split(ds coco.Dataset, testNames []string, validationSize int, rng *rand.Rand) Sets {
	test := make(map[string]struct{}, len(testNames))
	for _, n := range testNames {
		test[n] = struct{}{}
	}

	var candidates []string
	for _, img := range ds.Images {
		if _, ok := test[img.FileName]; !ok {
			candidates = append(candidates, img.FileName)
		}
	}
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	validation := make(map[string]struct{})
	for _, n := range candidates[:min(validationSize, len(candidates))] {
		validation[n] = struct{}{}
	}

	sets := Sets{
		Training:   subset(ds),
		Validation: subset(ds),
		Testing:    subset(ds),
	}
	owner := make(map[int]*coco.Dataset, len(ds.Images))
	for _, img := range ds.Images {
		target := &sets.Training
		if _, ok := test[img.FileName]; ok {
			target = &sets.Testing
		} else if _, ok := validation[img.FileName]; ok {
			target = &sets.Validation
		}
		target.Images = append(target.Images, img)
		owner[img.ID] = target
	}
	for _, a := range ds.Annotations {
		if target, ok := owner[a.ImageID]; ok {
			target.Annotations = append(target.Annotations, a)
		}
	}
	return sets
}

func subset(ds coco.Dataset) coco.Dataset {
	return coco.Dataset{
		Info:        ds.Info,
		Licenses:    ds.Licenses,
		Categories:  ds.Categories,
		Images:      []coco.Image{},
		Annotations: []coco.Annotation{},
	}
}

// ReadTestList reads one page name per line. Names without an extension get
// ".png" appended, matching the image file names of the dataset.
func ReadTestList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	names, err := parseTestList(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return names, nil
}

func parseTestList(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		if filepath.Ext(name) == "" {
			name += ".png"
		}
		names = append(names, name)
	}
	return names, sc.Err()
}

// Write stores the three sets in dir under their conventional names.
func Write(dir string, s Sets) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, ds := range map[string]coco.Dataset{
		"training_measure_annotations.json":   s.Training,
		"validation_measure_annotations.json": s.Validation,
		"testing_measure_annotations.json":    s.Testing,
	} {
		if err := coco.Write(filepath.Join(dir, name), ds); err != nil {
			return err
		}
	}
	return nil
}
