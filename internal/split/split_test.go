package split

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phobologic/omrprep/internal/coco"
	"github.com/phobologic/omrprep/internal/model"
)

func dataset(pages int) coco.Dataset {
	b := coco.NewBuilder(time.Unix(0, 0))
	for i := range pages {
		b.Add(fmt.Sprintf("CVC-MUSCIMA_W-%02d_N-01_D-ideal.png", i+1), model.Page{
			Width:  10,
			Height: 10,
			Staves: []model.Box{{Right: 5, Bottom: 5}, {Right: 6, Bottom: 6}},
		})
	}
	return b.Dataset()
}

func TestSplit(t *testing.T) {
	t.Parallel()

	ds := dataset(30)
	testNames := []string{"CVC-MUSCIMA_W-01_N-01_D-ideal.png", "CVC-MUSCIMA_W-02_N-01_D-ideal.png", "missing.png"}
	sets := Split(ds, testNames, 5, rand.New(rand.NewPCG(1, 1)))

	if got := len(sets.Testing.Images); got != 2 {
		t.Errorf("testing images = %d, want 2", got)
	}
	if got := len(sets.Validation.Images); got != 5 {
		t.Errorf("validation images = %d, want 5", got)
	}
	if got := len(sets.Training.Images); got != 23 {
		t.Errorf("training images = %d, want 23", got)
	}
	for name, s := range map[string]coco.Dataset{"training": sets.Training, "validation": sets.Validation, "testing": sets.Testing} {
		if len(s.Annotations) != 2*len(s.Images) {
			t.Errorf("%s: %d annotations for %d images", name, len(s.Annotations), len(s.Images))
		}
		if len(s.Categories) != 3 {
			t.Errorf("%s lost categories", name)
		}
	}

	seen := make(map[string]int)
	for _, s := range []coco.Dataset{sets.Training, sets.Validation, sets.Testing} {
		for _, img := range s.Images {
			seen[img.FileName]++
		}
	}
	if len(seen) != 30 {
		t.Errorf("%d distinct images across sets, want 30", len(seen))
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("%s appears in %d sets", name, n)
		}
	}
}

func TestSplitReproducible(t *testing.T) {
	t.Parallel()

	ds := dataset(40)
	a := Split(ds, nil, 20, rand.New(rand.NewPCG(9, 9)))
	b := Split(ds, nil, 20, rand.New(rand.NewPCG(9, 9)))
	for i := range a.Validation.Images {
		if a.Validation.Images[i].FileName != b.Validation.Images[i].FileName {
			t.Fatalf("validation differs at %d", i)
		}
	}
}

func TestSplitSmallDataset(t *testing.T) {
	t.Parallel()

	sets := Split(dataset(3), nil, 20, rand.New(rand.NewPCG(2, 2)))
	if len(sets.Validation.Images) != 3 || len(sets.Training.Images) != 0 {
		t.Errorf("validation %d, training %d; want 3, 0", len(sets.Validation.Images), len(sets.Training.Images))
	}
}

func TestParseTestList(t *testing.T) {
	t.Parallel()

	names, err := parseTestList(strings.NewReader("CVC-MUSCIMA_W-01_N-10_D-ideal\n\nalready.png\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "CVC-MUSCIMA_W-01_N-10_D-ideal.png" || names[1] != "already.png" {
		t.Errorf("names = %v", names)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "coco")
	if err := Write(dir, Split(dataset(4), nil, 1, rand.New(rand.NewPCG(3, 3)))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, name := range []string{"training_measure_annotations.json", "validation_measure_annotations.json", "testing_measure_annotations.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	ds, err := coco.Read(filepath.Join(dir, "validation_measure_annotations.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Images) != 1 {
		t.Errorf("validation images = %d, want 1", len(ds.Images))
	}
}
