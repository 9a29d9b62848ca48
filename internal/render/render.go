// Package render draws handwritten symbol strokes into PNG bitmaps.
package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"seehuhn.de/go/geom/vec"

	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/geometry"
	"github.com/phobologic/omrprep/internal/model"
)

// DefaultStaffLineSpacing is the distance in pixels between staff lines.
const DefaultStaffLineSpacing = 14

// penLift is the squared segment length above which two consecutive
// Capitan points are treated as separate strokes.
const penLift = 40 * 40

// Options controls how a symbol is placed and drawn.
type Options struct {
	StrokeThickness int
	Margin          int

	// Width and Height fix the canvas size. Zero means the symbol's own size
	// plus Margin on every side.
	Width  int
	Height int

	// RandomPlacement puts the symbol at a uniformly random integer position
	// that keeps it inside the canvas, instead of centring it.
	RandomPlacement bool
	Rand            *rand.Rand

	// StaffLineOffsets, when non-empty, produces one image per offset with
	// five horizontal lines starting at that y coordinate.
	StaffLineOffsets []int
	StaffLineSpacing int
}

func (o Options) canvasSize(dims geometry.Rectangle) (int, int) {
	if o.Width > 0 && o.Height > 0 {
		return o.Width, o.Height
	}
	return int(dims.Width) + 2*o.Margin, int(dims.Height) + 2*o.Margin
}

func (o Options) intN(n int) int {
	if o.Rand != nil {
		return o.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// placement returns the translation subtracted from every symbol point.
func (o Options) placement(dims geometry.Rectangle, canvasW, canvasH int) vec.Vec2 {
	m := float64(o.Margin)
	w := dims.Width + 2*m
	h := dims.Height + 2*m

	var px, py float64
	if o.RandomPlacement {
		px = float64(o.intN(max(0, canvasW-int(w)) + 1))
		py = float64(o.intN(max(0, canvasH-int(h)) + 1))
	} else {
		px = (float64(canvasW) - w) / 2
		py = (float64(canvasH) - h) / 2
	}
	return vec.Vec2{X: dims.Left - m - px, Y: dims.Top - m - py}
}

// snap moves v onto the pixel grid so a line of the given thickness covers
// whole pixels: odd widths are centred on a pixel, even widths on an edge.
func snap(v vec.Vec2, thickness int) vec.Vec2 {
	q := vec.Vec2{X: math.Round(v.X), Y: math.Round(v.Y)}
	if thickness%2 == 1 {
		q = q.Add(vec.Vec2{X: 0.5, Y: 0.5})
	}
	return q
}

// Homus draws sym according to opts and saves it under p. Every written file
// is recorded in boxes, when non-nil, with the rectangle the symbol occupies
// inside that image.
func Homus(sym *model.Symbol, p export.Path, opts Options, boxes *BoundingBoxes) error {
	w, h := opts.canvasSize(sym.Dimensions)
	off := opts.placement(sym.Dimensions, w, h)

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.White)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(float64(opts.StrokeThickness))

	for _, stroke := range sym.Strokes {
		for i, pt := range stroke {
			q := snap(pt.Sub(off), opts.StrokeThickness)
			if i == 0 {
				dc.MoveTo(q.X, q.Y)
			} else {
				dc.LineTo(q.X, q.Y)
			}
		}
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing %s: %w", p.ClassAndFile(), err)
	}

	placed := geometry.New(sym.Dimensions.Origin().Sub(off), sym.Dimensions.Width, sym.Dimensions.Height)

	if len(opts.StaffLineOffsets) == 0 {
		if err := saveContext(dc, p.FullPath()); err != nil {
			return err
		}
		boxes.Add(p.ClassAndFile(), placed)
		return nil
	}

	spacing := opts.StaffLineSpacing
	if spacing == 0 {
		spacing = DefaultStaffLineSpacing
	}
	base := dc.Image()
	for _, offset := range opts.StaffLineOffsets {
		if err := saveWithStaffLines(base, opts.StrokeThickness, spacing, offset, p.FullPathWithOffset(offset)); err != nil {
			return err
		}
		boxes.Add(p.ClassAndFileWithOffset(offset), placed)
	}
	return nil
}

func saveWithStaffLines(base image.Image, thickness, spacing, offset int, path string) error {
	dc := gg.NewContextForImage(base)
	defer func() { _ = dc.Close() }()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(float64(thickness))
	width := float64(dc.Width())
	for i := range 5 {
		y := snap(vec.Vec2{Y: float64(offset + i*spacing)}, thickness).Y
		dc.DrawLine(0, y, width, y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing staff lines: %w", err)
	}
	return saveContext(dc, path)
}

// CapitanStroke draws the stroke of sym at its natural size plus margin.
// Segments longer than 40 pixels are skipped as pen lifts.
func CapitanStroke(sym *model.CapitanSymbol, p export.Path, thickness, margin int) error {
	opts := Options{Margin: margin}
	w, h := opts.canvasSize(sym.Dimensions)
	off := vec.Vec2{X: sym.Dimensions.Left - float64(margin), Y: sym.Dimensions.Top - float64(margin)}

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.White)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(float64(thickness))

	for i := 0; i+1 < len(sym.Stroke); i++ {
		d := sym.Stroke[i+1].Sub(sym.Stroke[i])
		if d.X*d.X+d.Y*d.Y > penLift {
			continue
		}
		a := snap(sym.Stroke[i].Sub(off), thickness)
		b := snap(sym.Stroke[i+1].Sub(off), thickness)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing %s: %w", p.ClassAndFile(), err)
	}
	return saveContext(dc, p.FullPath())
}

// CapitanScore writes the 30x30 grayscale image embedded in sym.
func CapitanScore(sym *model.CapitanSymbol, p export.Path) error {
	n := model.CapitanImageSize
	if len(sym.Pixels) != n*n {
		return fmt.Errorf("capitan symbol %q: %d pixels, want %d", sym.Class, len(sym.Pixels), n*n)
	}
	img := image.NewGray(image.Rect(0, 0, n, n))
	copy(img.Pix, sym.Pixels)
	return SavePNG(img, p.FullPath())
}

func saveContext(dc *gg.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	diag.Logger().Debug("wrote image", "path", path)
	return nil
}

// SavePNG encodes img to path, creating parent directories as needed.
func SavePNG(img image.Image, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("writing %s: %w", path, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	diag.Logger().Debug("wrote image", "path", path)
	return nil
}
