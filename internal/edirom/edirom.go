// Package edirom converts the measure zones of Edirom MEI facsimiles into
// per-page measure annotations.
package edirom

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phobologic/omrprep/internal/measure"
	"github.com/phobologic/omrprep/internal/model"
)

// Surface is one facsimile page: the image it refers to and its measures.
type Surface struct {
	// Image is the file name of the page image, without directories.
	Image string
	Page  model.Page
}

type xmlGraphic struct {
	Target string `xml:"target,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlZone struct {
	Type string `xml:"type,attr"`
	ULX  int    `xml:"ulx,attr"`
	ULY  int    `xml:"uly,attr"`
	LRX  int    `xml:"lrx,attr"`
	LRY  int    `xml:"lry,attr"`
}

type xmlSurface struct {
	Graphics []xmlGraphic `xml:"graphic"`
	Zones    []xmlZone    `xml:"zone"`
}

// Decode reads every <surface> of an MEI document. Only zones of type
// "measure" are kept, as system measures; Edirom has no stave annotations.
func Decode(r io.Reader) ([]Surface, error) {
	dec := xml.NewDecoder(r)
	var surfaces []Surface
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return surfaces, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding MEI: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "surface" {
			continue
		}
		var s xmlSurface
		if err := dec.DecodeElement(&s, &start); err != nil {
			return nil, fmt.Errorf("decoding surface %d: %w", len(surfaces)+1, err)
		}
		if len(s.Graphics) == 0 || s.Graphics[0].Target == "" {
			return nil, fmt.Errorf("surface %d: no graphic target", len(surfaces)+1)
		}
		g := s.Graphics[0]
		page := model.Page{
			Width:          g.Width,
			Height:         g.Height,
			SystemMeasures: []model.Box{},
			StaveMeasures:  []model.Box{},
			Staves:         []model.Box{},
		}
		for _, z := range s.Zones {
			if z.Type != "measure" {
				continue
			}
			page.SystemMeasures = append(page.SystemMeasures,
				model.Box{Left: z.ULX, Top: z.ULY, Right: z.LRX, Bottom: z.LRY})
		}
		surfaces = append(surfaces, Surface{Image: path.Base(g.Target), Page: page})
	}
}

// Convert writes one JSON file per surface of the MEI file at meiPath into a
// directory named after it, e.g. Bargheer.xml -> Bargheer/<image>.json. It
// returns the number of files written.
func Convert(meiPath string) (int, error) {
	f, err := os.Open(meiPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	surfaces, err := Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", meiPath, err)
	}

	dir := strings.TrimSuffix(meiPath, filepath.Ext(meiPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	for _, s := range surfaces {
		name := strings.TrimSuffix(s.Image, path.Ext(s.Image)) + ".json"
		if err := measure.WritePage(filepath.Join(dir, name), s.Page); err != nil {
			return 0, err
		}
	}
	return len(surfaces), nil
}
