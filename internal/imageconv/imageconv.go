// Package imageconv performs whole-image conversions on raw dataset images.
package imageconv

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/phobologic/omrprep/internal/render"
)

// Load decodes the image at path. PNG, JPEG, BMP and TIFF are understood.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Size returns the pixel dimensions of the image at path without decoding
// its pixels.
func Size(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Grayscale converts img to 8-bit gray.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// Inverted returns the negative of img as gray, turning white-on-black
// scans into black-on-white.
func Inverted(img image.Image) *image.Gray {
	src := Grayscale(img)
	b := src.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		dst := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i, v := range row {
			dst[i] = 255 - v
		}
	}
	return out
}

// Invert writes the inverted image at path next to it with a .png extension
// and returns the new path.
func Invert(path string) (string, error) {
	img, err := Load(path)
	if err != nil {
		return "", err
	}
	dst := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := render.SavePNG(Inverted(img), dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ToRGB rewrites the image at path in place as 24-bit RGB.
func ToRGB(path string) error {
	img, err := Load(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	rgb := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgb, rgb.Bounds(), image.Opaque, image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), img, b.Min, draw.Over)
	return render.SavePNG(rgb, path)
}
