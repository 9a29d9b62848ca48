// Package graph loads MUSCIMA++ annotation graphs: score objects with pixel
// masks connected by directed relationships.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Class names with special meaning for measure and mask generation.
const (
	ClassStaff            = "staff"
	ClassStaffLine        = "staffLine"
	ClassStaffSpace       = "staffSpace"
	ClassMeasureSeparator = "measure_separator"
)

var (
	// ErrDuplicateNode is returned when two nodes of one document share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrNoMask is returned when a node carries no pixel mask.
	ErrNoMask = errors.New("node has no mask")
)

// Node is one annotated object of a score page. Coordinates are pixels;
// Right and Bottom are exclusive.
type Node struct {
	ID        int64
	ClassName string
	Top       int
	Left      int
	Width     int
	Height    int
	Mask      []uint8 // row-major Height x Width, nil when absent
	Inlinks   []int64
	Outlinks  []int64
	Dataset   string
	Document  string
	UniqueID  string
}

func (n *Node) Right() int  { return n.Left + n.Width }
func (n *Node) Bottom() int { return n.Top + n.Height }

// MaskAt returns the mask value at the given row and column, relative to the
// node's top-left corner.
func (n *Node) MaskAt(row, col int) (uint8, error) {
	if n.Mask == nil {
		return 0, fmt.Errorf("node %d: %w", n.ID, ErrNoMask)
	}
	if row < 0 || row >= n.Height || col < 0 || col >= n.Width {
		return 0, fmt.Errorf("node %d: mask index (%d, %d) outside %dx%d", n.ID, row, col, n.Height, n.Width)
	}
	return n.Mask[row*n.Width+col], nil
}

// Graph is an arena of nodes indexed by id. Relationships are resolved
// through a directed adjacency structure; links to ids that are not part of
// the document are dropped.
type Graph struct {
	nodes []Node
	index map[int64]int
	adj   *simple.DirectedGraph
}

// New builds a graph over nodes, keeping their order.
func New(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes: nodes,
		index: make(map[int64]int, len(nodes)),
		adj:   simple.NewDirectedGraph(),
	}
	for i := range nodes {
		id := nodes[i].ID
		if _, dup := g.index[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, id)
		}
		g.index[id] = i
		g.adj.AddNode(simple.Node(id))
	}

	for i := range nodes {
		n := &nodes[i]
		for _, to := range n.Outlinks {
			g.link(n.ID, to)
		}
		for _, from := range n.Inlinks {
			g.link(from, n.ID)
		}
	}
	return g, nil
}

func (g *Graph) link(from, to int64) {
	if from == to {
		return
	}
	if _, ok := g.index[from]; !ok {
		return
	}
	if _, ok := g.index[to]; !ok {
		return
	}
	g.adj.SetEdge(g.adj.NewEdge(simple.Node(from), simple.Node(to)))
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int64) *Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.nodes[i]
}

// Nodes returns all nodes in document order.
func (g *Graph) Nodes() []Node { return g.nodes }

// ByClass returns the nodes of the given class in document order.
func (g *Graph) ByClass(class string) []*Node {
	var out []*Node
	for i := range g.nodes {
		if g.nodes[i].ClassName == class {
			out = append(out, &g.nodes[i])
		}
	}
	return out
}

// Outlinks returns the nodes id points to, ordered by id.
func (g *Graph) Outlinks(id int64) []*Node {
	return g.resolve(g.adj.From(id))
}

// Inlinks returns the nodes pointing to id, ordered by id.
func (g *Graph) Inlinks(id int64) []*Node {
	return g.resolve(g.adj.To(id))
}

func (g *Graph) resolve(it gonum.Nodes) []*Node {
	var ids []int64
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	slices.Sort(ids)
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Node(id))
	}
	return out
}

// NormalizeClassName strips the quote, slash and dot characters that some
// crop-object exports leave in class names.
func NormalizeClassName(name string) string {
	return classNameCleaner.Replace(name)
}

var classNameCleaner = strings.NewReplacer(`"`, "", "/", "", ".", "")
