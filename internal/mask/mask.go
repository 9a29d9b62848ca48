// Package mask renders segmentation masks from MUSCIMA++ node annotations.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/phobologic/omrprep/internal/diag"
	"github.com/phobologic/omrprep/internal/graph"
)

// Mode selects what a mask image encodes.
type Mode int

const (
	// NodesSemantic paints every symbol with the gray value of its class.
	// Staff, staff line and staff space nodes are left out.
	NodesSemantic Mode = iota + 1
	// StaffLines paints staff line masks; the five lines of one staff share
	// a value, the first staff being 1.
	StaffLines
	// StaffBlobs fills the whole area of each staff with its index.
	StaffBlobs
)

// ErrUnknownMode is returned by ParseMode for unsupported names.
var ErrUnknownMode = errors.New("unknown mask type")

var modeNames = map[string]Mode{
	"nodes_semantic": NodesSemantic,
	"staff_lines":    StaffLines,
	"staff_blob":     StaffBlobs,
}

// ParseMode maps a command-line name to a Mode.
func ParseMode(name string) (Mode, error) {
	m, ok := modeNames[name]
	if !ok {
		return 0, fmt.Errorf("%w %q: must be one of nodes_semantic, staff_lines, staff_blob", ErrUnknownMode, name)
	}
	return m, nil
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const linesPerStaff = 5

var semanticSkip = map[string]struct{}{
	graph.ClassStaff:      {},
	graph.ClassStaffLine:  {},
	graph.ClassStaffSpace: {},
}

// Render produces a width x height mask for one page. colors is only used
// by NodesSemantic. Nodes that cannot be drawn are logged and skipped; the
// rest of the page is still rendered.
func Render(nodes []graph.Node, width, height int, mode Mode, colors map[string]uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	switch mode {
	case NodesSemantic:
		renderSemantic(img, nodes, colors)
	case StaffLines:
		renderStaffLines(img, nodes)
	case StaffBlobs:
		renderStaffBlobs(img, nodes)
	}
	return img
}

// renderSemantic walks the nodes backwards so that, where masks overlap,
// the node listed first ends up on top.
func renderSemantic(img *image.Gray, nodes []graph.Node, colors map[string]uint8) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := &nodes[i]
		if _, skip := semanticSkip[n.ClassName]; skip {
			continue
		}
		color, ok := colors[n.ClassName]
		if !ok {
			skipped(n, fmt.Errorf("class %q not in taxonomy", n.ClassName))
			continue
		}
		if err := paintMask(img, n, color); err != nil {
			skipped(n, err)
		}
	}
}

func renderStaffLines(img *image.Gray, nodes []graph.Node) {
	line, staff := 0, 1
	for i := range nodes {
		n := &nodes[i]
		if n.ClassName != graph.ClassStaffLine {
			continue
		}
		if line == linesPerStaff {
			line = 0
			staff++
		}
		line++
		if err := paintMask(img, n, uint8(staff)); err != nil {
			skipped(n, err)
		}
	}
}

func renderStaffBlobs(img *image.Gray, nodes []graph.Node) {
	line, staff := 0, 1
	var first *graph.Node
	for i := range nodes {
		n := &nodes[i]
		if n.ClassName != graph.ClassStaffLine {
			continue
		}
		if line == linesPerStaff-1 {
			r := image.Rect(n.Left, first.Top, n.Right(), n.Bottom())
			if err := fill(img, r, uint8(staff)); err != nil {
				skipped(n, err)
			}
		}
		if line == linesPerStaff {
			staff++
			line = 0
		}
		line++
		if line == 1 {
			first = n
		}
	}
}

func paintMask(img *image.Gray, n *graph.Node, value uint8) error {
	if n.Mask == nil {
		return graph.ErrNoMask
	}
	if len(n.Mask) != n.Width*n.Height {
		return fmt.Errorf("%w: %d values for %dx%d", graph.ErrMaskSize, len(n.Mask), n.Width, n.Height)
	}
	r := image.Rect(n.Left, n.Top, n.Right(), n.Bottom())
	if !r.In(img.Bounds()) {
		return fmt.Errorf("extent %v outside page %v", r, img.Bounds())
	}
	for row := range n.Height {
		for col := range n.Width {
			v, err := n.MaskAt(row, col)
			if err != nil {
				return err
			}
			if v != 0 {
				img.Pix[img.PixOffset(n.Left+col, n.Top+row)] = value
			}
		}
	}
	return nil
}

func fill(img *image.Gray, r image.Rectangle, value uint8) error {
	if !r.In(img.Bounds()) {
		return fmt.Errorf("staff area %v outside page %v", r, img.Bounds())
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[img.PixOffset(x, y)] = value
		}
	}
	return nil
}

func skipped(n *graph.Node, err error) {
	diag.Logger().Warn("skipping node", "id", n.UniqueID, "class", n.ClassName, "err", err)
}

// SymbolBitmap renders a node's mask as a black symbol on white.
func SymbolBitmap(n *graph.Node) (*image.Gray, error) {
	if n.Mask == nil {
		return nil, fmt.Errorf("node %d: %w", n.ID, graph.ErrNoMask)
	}
	if len(n.Mask) != n.Width*n.Height {
		return nil, fmt.Errorf("node %d: %w", n.ID, graph.ErrMaskSize)
	}
	img := image.NewGray(image.Rect(0, 0, n.Width, n.Height))
	for i, v := range n.Mask {
		if v == 0 {
			img.Pix[i] = 255
		}
	}
	return img, nil
}
