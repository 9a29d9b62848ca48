// Package export derives output file names for generated images.
package export

import (
	"fmt"
	"path"
	"path/filepath"
)

// Path names one generated image: directory/class/base[_thickness][_offset_N].ext.
// The zero thickness means "not part of the name".
type Path struct {
	Directory string
	Class     string
	Base      string
	Extension string
	thickness int
}

// New returns a path without a stroke thickness suffix. An empty extension
// means png.
func New(directory, class, base, extension string) Path {
	if extension == "" {
		extension = "png"
	}
	return Path{Directory: directory, Class: class, Base: base, Extension: extension}
}

// WithStrokeThickness returns a copy of p whose names carry "_t".
func (p Path) WithStrokeThickness(t int) Path {
	p.thickness = t
	return p
}

// FullPath returns the on-disk location of the image.
func (p Path) FullPath() string {
	return filepath.Join(p.Directory, p.Class, p.fileName(""))
}

// FullPathWithOffset returns the location of the variant drawn with staff
// lines starting at offset.
func (p Path) FullPathWithOffset(offset int) string {
	return filepath.Join(p.Directory, p.Class, p.fileName(fmt.Sprintf("_offset_%d", offset)))
}

// ClassAndFile returns "class/file", the key used for bounding-box records.
func (p Path) ClassAndFile() string {
	return path.Join(p.Class, p.fileName(""))
}

// ClassAndFileWithOffset is ClassAndFile for a staff-line variant.
func (p Path) ClassAndFileWithOffset(offset int) string {
	return path.Join(p.Class, p.fileName(fmt.Sprintf("_offset_%d", offset)))
}

func (p Path) fileName(suffix string) string {
	name := p.Base
	if p.thickness > 0 {
		name += fmt.Sprintf("_%d", p.thickness)
	}
	return name + suffix + "." + p.Extension
}
