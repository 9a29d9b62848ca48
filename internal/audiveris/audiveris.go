// Package audiveris crops annotated symbols out of Audiveris OMR pages.
package audiveris

import (
	"encoding/xml"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/vec"

	"github.com/phobologic/omrprep/internal/export"
	"github.com/phobologic/omrprep/internal/geometry"
	"github.com/phobologic/omrprep/internal/render"
)

// Margin is the number of pixels kept around every cropped symbol.
const Margin = 1

// Symbol is one annotated shape on a page.
type Symbol struct {
	Shape  string
	Bounds geometry.Rectangle
}

type xmlSymbol struct {
	Shape  string `xml:"shape,attr"`
	Bounds struct {
		X string `xml:"x,attr"`
		Y string `xml:"y,attr"`
		W string `xml:"w,attr"`
		H string `xml:"h,attr"`
	} `xml:"Bounds"`
}

type xmlAnnotations struct {
	Symbols []xmlSymbol `xml:"Symbol"`
}

// ReadSymbols parses the symbol list at path.
func ReadSymbols(path string) ([]Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	symbols, err := DecodeSymbols(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return symbols, nil
}

// DecodeSymbols reads <Symbol shape=".."><Bounds x y w h/></Symbol> entries.
// Fractional coordinates are truncated.
func DecodeSymbols(r io.Reader) ([]Symbol, error) {
	var doc xmlAnnotations
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding symbols: %w", err)
	}
	symbols := make([]Symbol, 0, len(doc.Symbols))
	for i, s := range doc.Symbols {
		var v [4]float64
		for j, raw := range []string{s.Bounds.X, s.Bounds.Y, s.Bounds.W, s.Bounds.H} {
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("symbol %d (%s): bounds: %w", i, s.Shape, err)
			}
			v[j] = float64(int(f))
		}
		symbols = append(symbols, Symbol{
			Shape:  s.Shape,
			Bounds: geometry.New(vec.Vec2{X: v[0], Y: v[1]}, v[2], v[3]),
		})
	}
	return symbols, nil
}

// Crop copies r out of img into a new image anchored at the origin. Parts of
// r outside img stay zero.
func Crop(img image.Image, r image.Rectangle) image.Image {
	bounds := image.Rect(0, 0, r.Dx(), r.Dy())
	var dst draw.Image
	if _, ok := img.(*image.Gray); ok {
		dst = image.NewGray(bounds)
	} else {
		dst = image.NewRGBA(bounds)
	}
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}

// Extract crops every symbol listed in xmlPath out of the page at imagePath
// into dest/<shape>/<page><n>.png, numbering from zero. It returns the number
// of symbols written.
func Extract(xmlPath, imagePath, dest string) (int, error) {
	symbols, err := ReadSymbols(xmlPath)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return 0, err
	}
	page, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", imagePath, err)
	}

	base := strings.TrimSuffix(filepath.Base(xmlPath), filepath.Ext(xmlPath))
	for n, s := range symbols {
		crop := Crop(page, s.Bounds.WithMargin(Margin))
		p := export.New(dest, s.Shape, base+strconv.Itoa(n), "png")
		if err := render.SavePNG(crop, p.FullPath()); err != nil {
			return n, err
		}
	}
	return len(symbols), nil
}
