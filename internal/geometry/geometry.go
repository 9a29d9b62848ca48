// Package geometry provides the axis-aligned rectangle used for symbol
// dimensions and placement boxes.
package geometry

import (
	"fmt"
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Rectangle is an axis-aligned box anchored at its top-left corner.
// Right and Bottom are derived, so they always agree with the stored fields.
type Rectangle struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// New returns the rectangle with the given origin and size.
func New(origin vec.Vec2, width, height float64) Rectangle {
	return Rectangle{Left: origin.X, Top: origin.Y, Width: width, Height: height}
}

// Bounds returns the tight inclusive bounding box of points: a box holding a
// single point has width and height 1. It returns false for no points.
func Bounds(points []vec.Vec2) (Rectangle, bool) {
	if len(points) == 0 {
		return Rectangle{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rectangle{
		Left:   minX,
		Top:    minY,
		Width:  math.Trunc(maxX - minX + 1),
		Height: math.Trunc(maxY - minY + 1),
	}, true
}

// Origin returns the top-left corner.
func (r Rectangle) Origin() vec.Vec2 { return vec.Vec2{X: r.Left, Y: r.Top} }

func (r Rectangle) Right() float64  { return r.Left + r.Width }
func (r Rectangle) Bottom() float64 { return r.Top + r.Height }

// Center returns the midpoint of the box.
func (r Rectangle) Center() vec.Vec2 {
	return vec.Vec2{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Overlap reports whether a and b intersect on both axes. Edges are
// inclusive, so boxes that merely touch overlap.
func Overlap(a, b Rectangle) bool {
	horizontal := a.Left <= b.Right() && a.Right() >= b.Left
	vertical := a.Top <= b.Bottom() && a.Bottom() >= b.Top
	return horizontal && vertical
}

// Merge returns the smallest rectangle enclosing both a and b.
func Merge(a, b Rectangle) Rectangle {
	left := math.Min(a.Left, b.Left)
	top := math.Min(a.Top, b.Top)
	right := math.Max(a.Right(), b.Right())
	bottom := math.Max(a.Bottom(), b.Bottom())
	return Rectangle{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// WithMargin returns the integer pixel box grown by margin on every side.
func (r Rectangle) WithMargin(margin int) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left))-margin,
		int(math.Floor(r.Top))-margin,
		int(math.Ceil(r.Right()))+margin,
		int(math.Ceil(r.Bottom()))+margin,
	)
}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle[Origin:%g,%g, Width:%g, Height:%g]", r.Left, r.Top, r.Width, r.Height)
}
