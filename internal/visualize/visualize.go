// Package visualize overlays measure annotations on score pages.
package visualize

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"github.com/phobologic/omrprep/internal/measure"
	"github.com/phobologic/omrprep/internal/model"
	"github.com/phobologic/omrprep/internal/render"
)

// Options selects which region kinds are drawn.
type Options struct {
	SystemMeasures bool
	StaveMeasures  bool
	Staves         bool
}

// All draws every region kind.
var All = Options{SystemMeasures: true, StaveMeasures: true, Staves: true}

const alpha = 100.0 / 255

// AnnotatedPath returns where the overlay of imagePath is written.
func AnnotatedPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + "_annotated.png"
}

// Draw returns a copy of img with the selected regions filled in
// semi-transparent colors: system measures blue, stave measures magenta,
// staves yellow.
func Draw(img image.Image, page model.Page, opts Options) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	defer func() { _ = dc.Close() }()

	layers := []struct {
		on      bool
		boxes   []model.Box
		r, g, b float64
	}{
		{opts.SystemMeasures, page.SystemMeasures, 0, 0, 1},
		{opts.StaveMeasures, page.StaveMeasures, 1, 0, 1},
		{opts.Staves, page.Staves, 1, 1, 0},
	}
	for _, l := range layers {
		if !l.on || len(l.boxes) == 0 {
			continue
		}
		dc.SetRGBA(l.r, l.g, l.b, alpha)
		for _, b := range l.boxes {
			dc.DrawRectangle(float64(b.Left), float64(b.Top), float64(b.Width()), float64(b.Height()))
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("filling %v: %w", b, err)
			}
		}
	}
	return dc.Image(), nil
}

// File draws the annotations in jsonPath over imagePath and saves the result
// next to the image. It returns the output path.
func File(imagePath, jsonPath string, opts Options) (string, error) {
	page, err := measure.ReadPage(jsonPath)
	if err != nil {
		return "", err
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", imagePath, err)
	}

	out, err := Draw(img, page, opts)
	if err != nil {
		return "", err
	}
	dst := AnnotatedPath(imagePath)
	if err := render.SavePNG(out, dst); err != nil {
		return "", err
	}
	return dst, nil
}
