package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/phobologic/omrprep/internal/coco"
	"github.com/phobologic/omrprep/internal/imageconv"
	"github.com/phobologic/omrprep/internal/measure"
	"github.com/phobologic/omrprep/internal/model"
	"github.com/phobologic/omrprep/internal/render"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeTestImage(t *testing.T, root, rel string, img image.Image) {
	t.Helper()
	if err := render.SavePNG(img, filepath.Join(root, rel)); err != nil {
		t.Fatal(err)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s: %v", path, err)
	}
}

func loadTestImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imageconv.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func runOK(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("run %v: %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String()
}

func createHomusDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "W-01/1.txt", "test\n23,107;30,101;\n")
	writeTestFile(t, dir, "W-02/2.txt", "12-8-Time\n10,10;12,14;\n20,10;20,30;\n")
	return dir
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	out := runOK(t, "-V")
	if !strings.HasPrefix(out, "omrprep ") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"deepscores"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "homus") {
		t.Errorf("error should list available commands: %v", err)
	}
}

func TestRunNoCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); err == nil {
		t.Fatal("expected error without a command")
	}
	if !strings.Contains(stderr.String(), "Commands:") {
		t.Errorf("usage not printed:\n%s", stderr.String())
	}
}

func TestRunWrongArgumentCount(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"homus", t.TempDir()}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for missing destination")
	}
}

func TestRunHomusNatural(t *testing.T) {
	t.Parallel()
	raw := createHomusDataset(t)
	dest := t.TempDir()

	out := runOK(t, "homus", raw, dest, "-natural", "-s", "1,3")
	if !strings.Contains(out, "rendered 2 HOMUS files") {
		t.Errorf("unexpected output: %q", out)
	}

	// 8x7 symbol plus a 2px margin on every side.
	img := loadTestImage(t, filepath.Join(dest, "test", "1_3.png"))
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 11 {
		t.Errorf("natural size = %v, want 12x11", b)
	}
	requireFile(t, filepath.Join(dest, "test", "1_1.png"))
	requireFile(t, filepath.Join(dest, "12-8-Time", "2_3.png"))
}

func TestRunHomusFixedCanvasWithStaffLines(t *testing.T) {
	t.Parallel()
	raw := createHomusDataset(t)
	dest := t.TempDir()
	bboxes := filepath.Join(t.TempDir(), "bounding_boxes.json")

	runOK(t, "homus", "-offsets", "81,88", "-bboxes", bboxes, "-random", raw, dest)

	for _, name := range []string{"1_3_offset_81.png", "1_3_offset_88.png"} {
		img := loadTestImage(t, filepath.Join(dest, "test", name))
		if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
			t.Errorf("%s: size = %v, want 96x96", name, b)
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "test", "1_3.png")); err == nil {
		t.Error("image without staff lines should not be written")
	}

	data, err := os.ReadFile(bboxes)
	if err != nil {
		t.Fatal(err)
	}
	var boxes map[string]struct {
		Left, Top, Width, Height float64
	}
	if err := json.Unmarshal(data, &boxes); err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 4 {
		t.Errorf("got %d bounding boxes, want 4", len(boxes))
	}
	b, ok := boxes["test/1_3_offset_81.png"]
	if !ok {
		t.Fatalf("missing box for test/1_3_offset_81.png in %v", boxes)
	}
	if b.Width != 8 || b.Height != 7 || b.Left < 0 || b.Left+b.Width > 96 {
		t.Errorf("box = %+v", b)
	}
}

func TestRunHomusReproducible(t *testing.T) {
	t.Parallel()
	raw := createHomusDataset(t)

	read := func() string {
		bboxes := filepath.Join(t.TempDir(), "boxes.json")
		runOK(t, "homus", "-random", "-seed", "7", "-bboxes", bboxes, "-workers", "2", raw, t.TempDir())
		data, err := os.ReadFile(bboxes)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if first, second := read(), read(); first != second {
		t.Errorf("placement differs between runs:\n%s\n%s", first, second)
	}
}

func TestRunHomusMalformedFile(t *testing.T) {
	t.Parallel()
	raw := createHomusDataset(t)
	writeTestFile(t, raw, "W-03/3.txt", "broken\n1,a;\n")
	dest := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"homus", raw, dest}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if !strings.Contains(err.Error(), "1 of 3 files failed") {
		t.Errorf("unexpected error: %v", err)
	}
	// The other files are still rendered.
	requireFile(t, filepath.Join(dest, "test", "1_3.png"))
}

func TestRunHomusOffsetsNeedFixedCanvas(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"homus", "-natural", "-offsets", "81", createHomusDataset(t), t.TempDir()}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for -offsets with -natural")
	}
}

func capitanLine(class string) string {
	pixels := make([]string, model.CapitanImageSize*model.CapitanImageSize)
	for i := range pixels {
		pixels[i] = "255"
	}
	return class + ":1.5,1.5;4.5,3.5;:" + strings.Join(pixels, ",")
}

func TestRunCapitan(t *testing.T) {
	t.Parallel()
	raw := t.TempDir()
	writeTestFile(t, raw, "BimodalHandwrittenSymbols/data",
		capitanLine("quarter")+"\n\n"+capitanLine("flat")+"\n")
	dest := t.TempDir()

	out := runOK(t, "capitan", raw, dest, "-s", "2")
	if !strings.Contains(out, "rendered 2 Capitan symbols") {
		t.Errorf("unexpected output: %q", out)
	}
	requireFile(t, filepath.Join(dest, "quarter", "capitan-quarter-1-stroke_2.png"))
	requireFile(t, filepath.Join(dest, "flat", "capitan-flat-2-stroke_2.png"))

	score := loadTestImage(t, filepath.Join(dest, "quarter", "capitan-quarter-1-score.png"))
	if b := score.Bounds(); b.Dx() != 30 || b.Dy() != 30 {
		t.Errorf("score size = %v, want 30x30", b)
	}
}

func cropObject(id int, class string, left, top, width, height int, outlinks ...int) string {
	links := make([]string, len(outlinks))
	for i, l := range outlinks {
		links[i] = fmt.Sprint(l)
	}
	return fmt.Sprintf(`    <CropObject>
      <Id>%d</Id>
      <MLClassName>%s</MLClassName>
      <Top>%d</Top><Left>%d</Left><Width>%d</Width><Height>%d</Height>
      <Outlinks>%s</Outlinks>
    </CropObject>
`, id, class, top, left, width, height, strings.Join(links, " "))
}

// createMuscimaV1 writes one page with a single stave split by one barline.
func createMuscimaV1(t *testing.T) string {
	t.Helper()
	return createMuscimaV1Classes(t, "staff", "measure_separator")
}

func createMuscimaV1Classes(t *testing.T, staff, separator string) string {
	t.Helper()
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("<CropObjectList>\n  <CropObjects>\n")
	b.WriteString(cropObject(0, staff, 10, 10, 200, 40))
	for i := 1; i <= 5; i++ {
		b.WriteString(cropObject(i, "notehead-full", 120+i*6, 20, 5, 5, 0))
	}
	b.WriteString(cropObject(6, separator, 100, 10, 4, 40, 0))
	b.WriteString("  </CropObjects>\n</CropObjectList>\n")

	writeTestFile(t, dir, "v1.0/data/cropobjects_withstaff/page.xml", b.String())
	writeTestImage(t, dir, "v1.0/data/images/page.png", image.NewGray(image.Rect(0, 0, 300, 100)))
	return dir
}

func TestRunMeasures(t *testing.T) {
	t.Parallel()
	root := createMuscimaV1(t)

	runOK(t, "measures", root)

	page, err := measure.ReadPage(filepath.Join(root, "v1.0", "data", "json", "page.json"))
	if err != nil {
		t.Fatal(err)
	}
	if page.Width != 300 || page.Height != 100 {
		t.Errorf("size = %dx%d, want 300x100", page.Width, page.Height)
	}
	if len(page.Staves) != 1 || len(page.StaveMeasures) != 2 || len(page.SystemMeasures) != 2 {
		t.Errorf("page = %+v", page)
	}
	want := model.Box{Left: 104, Top: 10, Right: 210, Bottom: 50}
	if len(page.StaveMeasures) == 2 && page.StaveMeasures[1] != want {
		t.Errorf("last measure = %+v, want %+v", page.StaveMeasures[1], want)
	}
}

func TestRunMeasuresNormalizesClassNames(t *testing.T) {
	t.Parallel()
	root := createMuscimaV1Classes(t, `"staff"`, "measure_separator.")

	runOK(t, "measures", root)

	page, err := measure.ReadPage(filepath.Join(root, "v1.0", "data", "json", "page.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Staves) != 1 || len(page.StaveMeasures) != 2 {
		t.Errorf("page = %+v, want the cleaned class names to be recognised", page)
	}
}

func TestRunMeasuresSummary(t *testing.T) {
	t.Parallel()
	root := createMuscimaV1(t)

	out := runOK(t, "measures", "-summary", root)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if lines[0] != "dataset: muscima_pp_v1" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[2] != "  page.json,300,100,1,2,2" {
		t.Errorf("line 2: got %q", lines[2])
	}
}

func TestRunMeasuresMissingDataset(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"measures", t.TempDir()}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for an empty dataset")
	}
}

func writePages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for i, name := range names {
		p := model.Page{
			Width:          100,
			Height:         50,
			SystemMeasures: []model.Box{{Left: 0, Top: 0, Right: 10 + i, Bottom: 10}},
			StaveMeasures:  []model.Box{},
			Staves:         []model.Box{{Left: 0, Top: 0, Right: 20, Bottom: 10}},
		}
		if err := measure.WritePage(filepath.Join(dir, name+".json"), p); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunCocoAndSplit(t *testing.T) {
	t.Parallel()
	jsonDir := t.TempDir()
	writePages(t, jsonDir, "a", "b", "c")
	out := filepath.Join(t.TempDir(), "all.json")

	runOK(t, "coco", jsonDir, out)

	ds, err := coco.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Images) != 3 || ds.Images[0].FileName != "a.png" || ds.Images[0].ID != 1 {
		t.Fatalf("images = %+v", ds.Images)
	}
	if len(ds.Annotations) != 6 {
		t.Fatalf("got %d annotations, want 6", len(ds.Annotations))
	}

	testList := filepath.Join(t.TempDir(), "test.txt")
	writeTestFile(t, filepath.Dir(testList), "test.txt", "c\n")
	splitDir := t.TempDir()

	summary := runOK(t, "split", out, testList, splitDir, "-validation", "1")
	if !strings.Contains(summary, "training: 1 images, validation: 1 images, testing: 1 images") {
		t.Errorf("unexpected output: %q", summary)
	}
	testSet, err := coco.Read(filepath.Join(splitDir, "testing_measure_annotations.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(testSet.Images) != 1 || testSet.Images[0].FileName != "c.png" {
		t.Errorf("test images = %+v", testSet.Images)
	}
	if len(testSet.Annotations) != 2 {
		t.Errorf("test annotations = %d, want 2", len(testSet.Annotations))
	}
}

const muscimaV2Page = `<?xml version="1.0" encoding="utf-8"?>
<Nodes dataset="MUSCIMA-pp_2.0" document="page">
  <Node>
    <Id>0</Id>
    <ClassName>noteheadFull</ClassName>
    <Top>10</Top><Left>20</Left><Width>3</Width><Height>2</Height>
    <Mask>0:1 1:4 0:1</Mask>
  </Node>
  <Node>
    <Id>1</Id>
    <ClassName>staff</ClassName>
    <Top>0</Top><Left>0</Left><Width>2</Width><Height>1</Height>
    <Mask>1:2</Mask>
  </Node>
</Nodes>`

const muscimaV2Classes = `<NodeClassList>
  <NodeClasses>
    <NodeClass><Id>1</Id><Name>noteheadFull</Name></NodeClass>
    <NodeClass><Id>2</Id><Name>staff</Name></NodeClass>
  </NodeClasses>
</NodeClassList>`

func createMuscimaV2(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "v2.0/data/annotations/page.xml", muscimaV2Page)
	writeTestFile(t, dir, "v2.0/specifications/mff-muscima-mlclasses-annot.xml", muscimaV2Classes)
	writeTestImage(t, dir, "v2.0/data/images/page.png", image.NewGray(image.Rect(0, 0, 40, 30)))
	return dir
}

func TestRunMasks(t *testing.T) {
	t.Parallel()
	raw := createMuscimaV2(t)
	dest := t.TempDir()

	runOK(t, "masks", raw, dest, "-type", "nodes_semantic")

	img := loadTestImage(t, filepath.Join(dest, "page.png"))
	g := imageconv.Grayscale(img)
	if b := g.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("mask size = %v, want 40x30", b)
	}
	if v := g.GrayAt(21, 10).Y; v != 1 {
		t.Errorf("notehead pixel = %d, want class color 1", v)
	}
	if v := g.GrayAt(20, 10).Y; v != 0 {
		t.Errorf("background pixel = %d, want 0", v)
	}
	if v := g.GrayAt(0, 0).Y; v != 0 {
		t.Errorf("staff pixel = %d, staves are not part of the semantic mask", v)
	}
}

func TestRunMasksUnknownType(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"masks", "-type", "instances", createMuscimaV2(t), t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "-type") {
		t.Fatalf("err = %v, want -type error", err)
	}
}

func TestRunSymbols(t *testing.T) {
	t.Parallel()
	raw := createMuscimaV2(t)
	dest := t.TempDir()

	out := runOK(t, "symbols", raw, dest)
	if !strings.Contains(out, "rendered 2 symbols") {
		t.Errorf("unexpected output: %q", out)
	}
	img := loadTestImage(t, filepath.Join(dest, "noteheadFull", "MUSCIMA-pp_2.0___page___0.png"))
	g := imageconv.Grayscale(img)
	if g.GrayAt(0, 0).Y != 255 || g.GrayAt(1, 0).Y != 0 {
		t.Errorf("symbol pixels = %v, want black on white", g.Pix)
	}
}

func TestRunVisualize(t *testing.T) {
	t.Parallel()
	imageDir := t.TempDir()
	jsonDir := t.TempDir()
	writeTestImage(t, imageDir, "a.png", image.NewGray(image.Rect(0, 0, 100, 50)))
	writeTestImage(t, imageDir, "unannotated.png", image.NewGray(image.Rect(0, 0, 10, 10)))
	writePages(t, jsonDir, "a")

	out := runOK(t, "visualize", imageDir, jsonDir, "-no-staves")
	if !strings.Contains(out, "annotated 1 images") {
		t.Errorf("unexpected output: %q", out)
	}
	requireFile(t, filepath.Join(imageDir, "a_annotated.png"))

	// A second run ignores its own output.
	out = runOK(t, "visualize", imageDir, jsonDir)
	if !strings.Contains(out, "annotated 1 images") {
		t.Errorf("unexpected output on rerun: %q", out)
	}
	if _, err := os.Stat(filepath.Join(imageDir, "a_annotated_annotated.png")); err == nil {
		t.Error("annotated image was annotated again")
	}
}

func TestRunAudiveris(t *testing.T) {
	t.Parallel()
	raw := t.TempDir()
	writeTestFile(t, raw, "mops-1.xml", `<Annotations>
  <Symbol shape="clefG"><Bounds x="2" y="2" w="4" h="6"/></Symbol>
  <Symbol shape="clefG"><Bounds x="10.6" y="1" w="3" h="3"/></Symbol>
</Annotations>`)
	writeTestImage(t, raw, "mops-1.png", image.NewGray(image.Rect(0, 0, 20, 10)))
	dest := t.TempDir()

	out := runOK(t, "audiveris", raw, dest)
	if !strings.Contains(out, "extracted 2 symbols from 1 pages") {
		t.Errorf("unexpected output: %q", out)
	}
	img := loadTestImage(t, filepath.Join(dest, "clefG", "mops-10.png"))
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 8 {
		t.Errorf("crop size = %v, want 6x8", b)
	}
	requireFile(t, filepath.Join(dest, "clefG", "mops-11.png"))
}

func TestRunAudiverisSuggestsLayout(t *testing.T) {
	t.Parallel()
	raw := createHomusDataset(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"audiveris", raw, t.TempDir()}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for a directory without Audiveris pages")
	}
	if !strings.Contains(err.Error(), ".txt files fit homus") {
		t.Errorf("err = %v, want a hint naming the homus layout", err)
	}
}

func TestRunEdirom(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTestFile(t, root, "Bargheer.xml", `<?xml version="1.0"?>
<mei xmlns="http://www.music-encoding.org/ns/mei"><music><facsimile>
  <surface>
    <graphic target="images/Bargheer/p1.jpg" width="400" height="300"/>
    <zone type="measure" ulx="5" uly="10" lrx="200" lry="290"/>
  </surface>
</facsimile></music></mei>`)

	out := runOK(t, "edirom", root)
	if !strings.Contains(out, "wrote 1 page annotations from 1 MEI files") {
		t.Errorf("unexpected output: %q", out)
	}
	page, err := measure.ReadPage(filepath.Join(root, "Bargheer", "p1.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := model.Box{Left: 5, Top: 10, Right: 200, Bottom: 290}
	if page.Width != 400 || len(page.SystemMeasures) != 1 || page.SystemMeasures[0] != want {
		t.Errorf("page = %+v", page)
	}
}

func TestRunInvertAndRGB(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(0, 0, color.Gray{Y: 255})
	f, err := os.Create(filepath.Join(dir, "fornes.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	runOK(t, "invert", dir)
	inverted := imageconv.Grayscale(loadTestImage(t, filepath.Join(dir, "fornes.png")))
	if inverted.GrayAt(0, 0).Y != 0 || inverted.GrayAt(1, 1).Y != 255 {
		t.Errorf("inverted pixels = %v", inverted.Pix)
	}

	out := runOK(t, "rgb", dir)
	if !strings.Contains(out, "converted 1 images") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, ok := loadTestImage(t, filepath.Join(dir, "fornes.png")).(*image.RGBA); !ok {
		t.Error("rgb should rewrite the image as RGB")
	}
}

func TestRunInvertNoImages(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"invert", "-pattern", "*.tif", t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "no images") {
		t.Fatalf("err = %v, want no images error", err)
	}
}

func TestProcessConcurrent(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd")
	seen := make([]bool, 5)
	err := processConcurrent(5, 3, func(i int) error {
		seen[i] = true
		if i%2 == 1 {
			return fmt.Errorf("file %d: %w", i, errOdd)
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "2 of 5 files failed: ") {
		t.Errorf("unexpected error: %v", err)
	}
	if !errors.Is(err, errOdd) {
		t.Error("task errors should be wrapped")
	}
	if strings.Index(err.Error(), "file 1") > strings.Index(err.Error(), "file 3") {
		t.Error("failures should be reported in task order")
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("task %d did not run", i)
		}
	}

	if err := processConcurrent(0, 0, nil); err != nil {
		t.Errorf("no tasks: %v", err)
	}
}

func TestParseIntList(t *testing.T) {
	t.Parallel()

	got, err := parseIntList(" 81, 88,95,")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 81 || got[2] != 95 {
		t.Errorf("got %v", got)
	}
	if got, _ := parseIntList(""); len(got) != 0 {
		t.Errorf("empty list = %v", got)
	}
	if _, err := parseIntList("1,x"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"-s", "3", "raw", "dest"}, []string{"-s", "3", "raw", "dest"}},
		{"positional first", []string{"raw", "dest", "-s", "3"}, []string{"-s", "3", "raw", "dest"}},
		{"mixed", []string{"-width", "128", "raw", "-offsets", "81,88", "dest"}, []string{"-width", "128", "-offsets", "81,88", "raw", "dest"}},
		{"bool flag between", []string{"raw", "-natural", "dest"}, []string{"-natural", "raw", "dest"}},
		{"no flags", []string{"."}, []string{"."}},
		{"no args", nil, nil},
		{"bool flag", []string{"-v"}, []string{"-v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
					break
				}
			}
		})
	}
}
