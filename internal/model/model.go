// Package model defines core data structures for omrprep.
package model

import (
	"seehuhn.de/go/geom/vec"

	"github.com/phobologic/omrprep/internal/geometry"
)

// CapitanImageSize is the edge length of the bitmap embedded in a Capitan record.
const CapitanImageSize = 30

// Symbol is a handwritten HOMUS symbol: a label and one or more pen strokes.
type Symbol struct {
	Content    string
	Class      string
	Strokes    [][]vec.Vec2
	Dimensions geometry.Rectangle
}

// Points returns every point of every stroke.
func (s *Symbol) Points() []vec.Vec2 {
	var pts []vec.Vec2
	for _, stroke := range s.Strokes {
		pts = append(pts, stroke...)
	}
	return pts
}

// CapitanSymbol is a Capitan record: one stroke plus a 30x30 grayscale image.
type CapitanSymbol struct {
	Content    string
	Class      string
	Stroke     []vec.Vec2
	Pixels     []uint8 // row-major, CapitanImageSize*CapitanImageSize
	Dimensions geometry.Rectangle
}

// Box is an integer pixel region of a score page, right and bottom exclusive.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (b Box) Width() int  { return b.Right - b.Left }
func (b Box) Height() int { return b.Bottom - b.Top }

// Valid reports whether the box has positive extent and lies at non-negative
// coordinates.
func (b Box) Valid() bool {
	if b.Left < 0 || b.Top < 0 || b.Right < 0 || b.Bottom < 0 {
		return false
	}
	return b.Left < b.Right && b.Top < b.Bottom
}

// Page is the measure annotation written per score page.
type Page struct {
	Width          int   `json:"width"`
	Height         int   `json:"height"`
	SystemMeasures []Box `json:"system_measures"`
	StaveMeasures  []Box `json:"stave_measures"`
	Staves         []Box `json:"staves"`
}

// PageSummary counts the regions extracted from one page.
type PageSummary struct {
	File           string
	Width          int
	Height         int
	Staves         int
	StaveMeasures  int
	SystemMeasures int
}

// Summarize returns the counts for p.
func Summarize(file string, p Page) PageSummary {
	return PageSummary{
		File:           file,
		Width:          p.Width,
		Height:         p.Height,
		Staves:         len(p.Staves),
		StaveMeasures:  len(p.StaveMeasures),
		SystemMeasures: len(p.SystemMeasures),
	}
}

// Report summarises a measure extraction run.
type Report struct {
	Dataset string
	Pages   []PageSummary
}
