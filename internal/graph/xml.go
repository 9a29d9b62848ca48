package graph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMaskSize is returned when a run-length mask does not cover exactly
// width x height pixels.
var ErrMaskSize = errors.New("mask size mismatch")

// ReadOptions controls node decoding.
type ReadOptions struct {
	// NormalizeClassNames applies NormalizeClassName to every class.
	NormalizeClassNames bool
}

type xmlNode struct {
	ID          int64  `xml:"Id"`
	UniqueID    string `xml:"UniqueId"`
	ClassName   string `xml:"ClassName"`
	MLClassName string `xml:"MLClassName"`
	Top         int    `xml:"Top"`
	Left        int    `xml:"Left"`
	Width       int    `xml:"Width"`
	Height      int    `xml:"Height"`
	Mask        string `xml:"Mask"`
	Inlinks     string `xml:"Inlinks"`
	Outlinks    string `xml:"Outlinks"`
}

// ReadNodes decodes the annotation file at path.
func ReadNodes(path string, opts ReadOptions) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nodes, err := DecodeNodes(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}

// DecodeNodes reads a MuNG <Nodes> document or a MUSCIMA++ 1.0
// <CropObjectList> document.
func DecodeNodes(r io.Reader, opts ReadOptions) ([]Node, error) {
	dec := xml.NewDecoder(r)
	var (
		nodes             []Node
		dataset, document string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding annotations: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Nodes", "CropObjectList":
			for _, a := range start.Attr {
				switch a.Name.Local {
				case "dataset":
					dataset = a.Value
				case "document":
					document = a.Value
				}
			}
		case "Node", "CropObject":
			var x xmlNode
			if err := dec.DecodeElement(&x, &start); err != nil {
				return nil, fmt.Errorf("decoding %s: %w", start.Name.Local, err)
			}
			n, err := x.node(dataset, document, opts)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
}

func (x *xmlNode) node(dataset, document string, opts ReadOptions) (Node, error) {
	class := x.ClassName
	if class == "" {
		class = x.MLClassName
	}
	if opts.NormalizeClassNames {
		class = NormalizeClassName(class)
	}

	n := Node{
		ID:        x.ID,
		ClassName: class,
		Top:       x.Top,
		Left:      x.Left,
		Width:     x.Width,
		Height:    x.Height,
		Dataset:   dataset,
		Document:  document,
		UniqueID:  x.UniqueID,
	}
	if n.UniqueID == "" {
		n.UniqueID = fmt.Sprintf("%s___%s___%d", dataset, document, x.ID)
	}

	var err error
	if n.Inlinks, err = parseIDs(x.Inlinks); err != nil {
		return Node{}, fmt.Errorf("node %d inlinks: %w", x.ID, err)
	}
	if n.Outlinks, err = parseIDs(x.Outlinks); err != nil {
		return Node{}, fmt.Errorf("node %d outlinks: %w", x.ID, err)
	}
	if n.Mask, err = DecodeMask(x.Mask, x.Width, x.Height); err != nil {
		return Node{}, fmt.Errorf("node %d: %w", x.ID, err)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DecodeMask expands a run-length mask such as "0:12 1:4 0:8" into
// width*height row-major values. An empty or "None" mask decodes to nil.
func DecodeMask(s string, width, height int) ([]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" {
		return nil, nil
	}
	mask := make([]uint8, 0, width*height)
	for _, run := range strings.Fields(s) {
		vs, ns, ok := strings.Cut(run, ":")
		if !ok {
			return nil, fmt.Errorf("mask run %q: missing ':'", run)
		}
		v, err := strconv.ParseUint(vs, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("mask run %q: %w", run, err)
		}
		count, err := strconv.Atoi(ns)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("mask run %q: bad length", run)
		}
		if len(mask)+count > width*height {
			return nil, fmt.Errorf("%w: runs exceed %dx%d", ErrMaskSize, width, height)
		}
		for range count {
			mask = append(mask, uint8(v))
		}
	}
	if len(mask) != width*height {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrMaskSize, len(mask), width, height)
	}
	return mask, nil
}

// Class is one entry of the annotation class taxonomy.
type Class struct {
	ID    int    `xml:"Id"`
	Name  string `xml:"Name"`
	Group string `xml:"GroupName"`
	Color string `xml:"Color"`
}

// ReadClasses decodes the class taxonomy at path.
func ReadClasses(path string) ([]Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	classes, err := DecodeClasses(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classes, nil
}

// DecodeClasses reads <NodeClass> or <CropObjectClass> entries in file order.
func DecodeClasses(r io.Reader) ([]Class, error) {
	dec := xml.NewDecoder(r)
	var classes []Class
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return classes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding class list: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || (start.Name.Local != "NodeClass" && start.Name.Local != "CropObjectClass") {
			continue
		}
		var c Class
		if err := dec.DecodeElement(&c, &start); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", start.Name.Local, err)
		}
		classes = append(classes, c)
	}
}

// ClassColors assigns each class its 1-based position in the taxonomy, the
// gray value used for semantic masks. Zero stays reserved for background.
func ClassColors(classes []Class) map[string]uint8 {
	colors := make(map[string]uint8, len(classes))
	for i, c := range classes {
		colors[c.Name] = uint8(i + 1)
	}
	return colors
}
