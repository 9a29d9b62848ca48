// Package measure derives stave, stave-measure and system-measure boxes from
// a MUSCIMA++ annotation graph.
package measure

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/phobologic/omrprep/internal/graph"
	"github.com/phobologic/omrprep/internal/model"
)

// minStaveObjects is the number of attached objects below which a stave is
// treated as empty; some staves carry a few stray links.
const minStaveObjects = 5

// Options tunes extraction.
type Options struct {
	// DedupSeparators merges separators of one stave whose horizontal
	// extents overlap into a single separator before splitting. Off by
	// default, so every annotated separator cuts the stave.
	DedupSeparators bool
}

// Extract returns the three region lists of one page. Width and Height are
// left for the caller, who knows the page image.
func Extract(g *graph.Graph, opts Options) model.Page {
	staves := g.ByClass(graph.ClassStaff)
	return model.Page{
		SystemMeasures: SystemMeasures(g, opts),
		StaveMeasures:  StaveMeasures(g, staves, opts),
		Staves:         Staves(staves),
	}
}

// Staves converts every stave node into a box.
func Staves(staves []*graph.Node) []model.Box {
	boxes := []model.Box{}
	for _, s := range staves {
		boxes = appendValid(boxes, box(s.Left, s.Top, s.Right(), s.Bottom()))
	}
	return boxes
}

// StaveMeasures splits each non-empty stave at its measure separators.
func StaveMeasures(g *graph.Graph, staves []*graph.Node, opts Options) []model.Box {
	boxes := []model.Box{}
	for _, s := range staves {
		attached := g.Inlinks(s.ID)
		if len(attached) < minStaveObjects {
			continue
		}
		seps := separators(g, s, opts)
		boxes = split(boxes, s.Left, s.Top, s.Bottom(), s.Right(), rightmost(attached), seps)
	}
	return boxes
}

// SystemMeasures groups staves into systems, one per distinct set of staves
// joined by a measure separator, and splits each system vertically through
// all of its staves.
func SystemMeasures(g *graph.Graph, opts Options) []model.Box {
	systems := systems(g)
	boxes := []model.Box{}
	for _, sys := range systems {
		top, bottom := sys[0].Top, sys[0].Bottom()
		left, end := sys[0].Left, sys[0].Right()
		var attached []*graph.Node
		for _, s := range sys {
			top = min(top, s.Top)
			bottom = max(bottom, s.Bottom())
			left = min(left, s.Left)
			end = max(end, s.Right())
			attached = append(attached, g.Inlinks(s.ID)...)
		}
		seps := separators(g, representative(sys), opts)
		boxes = split(boxes, left, top, bottom, end, rightmost(attached), seps)
	}
	return boxes
}

// split walks separators left to right, emitting one box per gap, and closes
// the last measure at end when objects extend past the final separator.
func split(boxes []model.Box, left, top, bottom, end int, lastObject int, seps []span) []model.Box {
	for _, sep := range seps {
		boxes = appendValid(boxes, box(left, top, sep.left, bottom))
		left = sep.right
	}
	if left < lastObject {
		boxes = appendValid(boxes, box(left, top, end, bottom))
	}
	return boxes
}

// span is the horizontal extent of a measure separator.
type span struct{ left, right int }

// separators returns the measure separators attached to stave, left to right.
func separators(g *graph.Graph, stave *graph.Node, opts Options) []span {
	var seps []span
	for _, n := range g.Inlinks(stave.ID) {
		if n.ClassName == graph.ClassMeasureSeparator {
			seps = append(seps, span{n.Left, n.Right()})
		}
	}
	slices.SortStableFunc(seps, func(a, b span) int { return cmp.Compare(a.left, b.left) })
	if !opts.DedupSeparators || len(seps) < 2 {
		return seps
	}
	merged := seps[:1]
	for _, s := range seps[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right {
			last.right = max(last.right, s.right)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// systems returns each distinct non-empty set of staves linked from a
// measure separator, ordered by position on the page.
func systems(g *graph.Graph) [][]*graph.Node {
	seen := make(map[string]struct{})
	var out [][]*graph.Node
	for _, sep := range g.ByClass(graph.ClassMeasureSeparator) {
		var staves []*graph.Node
		for _, n := range g.Outlinks(sep.ID) {
			if n.ClassName == graph.ClassStaff {
				staves = append(staves, n)
			}
		}
		if len(staves) == 0 {
			continue
		}
		k := key(staves)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, staves)
	}
	slices.SortStableFunc(out, func(a, b []*graph.Node) int {
		return cmp.Or(
			cmp.Compare(minTop(a), minTop(b)),
			cmp.Compare(minLeft(a), minLeft(b)),
		)
	})
	return out
}

// key identifies a set of staves independent of order. Outlinks are already
// sorted by id.
func key(staves []*graph.Node) string {
	parts := make([]string, len(staves))
	for i, s := range staves {
		parts[i] = strconv.FormatInt(s.ID, 10)
	}
	return strings.Join(parts, ",")
}

// representative picks the stave whose separators split the system: the
// top-most one, lowest id on ties.
func representative(staves []*graph.Node) *graph.Node {
	return slices.MinFunc(staves, func(a, b *graph.Node) int {
		return cmp.Or(cmp.Compare(a.Top, b.Top), cmp.Compare(a.ID, b.ID))
	})
}

func rightmost(nodes []*graph.Node) int {
	r := -1
	for _, n := range nodes {
		r = max(r, n.Right())
	}
	return r
}

func minTop(staves []*graph.Node) int {
	t := staves[0].Top
	for _, s := range staves[1:] {
		t = min(t, s.Top)
	}
	return t
}

func minLeft(staves []*graph.Node) int {
	l := staves[0].Left
	for _, s := range staves[1:] {
		l = min(l, s.Left)
	}
	return l
}

func box(left, top, right, bottom int) model.Box {
	return model.Box{Left: left, Top: top, Right: right, Bottom: bottom}
}

func appendValid(boxes []model.Box, b model.Box) []model.Box {
	if b.Valid() {
		return append(boxes, b)
	}
	return boxes
}
