// Package dataset provides a registry of the on-disk layouts of the raw OMR
// datasets the commands consume.
package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Dataset describes where a raw dataset keeps its files. Directory fields are
// relative to the dataset root, slash-separated; empty means the root itself.
type Dataset struct {
	Name string

	// Extensions of the annotation files, with the leading dot.
	Extensions []string

	Annotations string
	Images      string
	Output      string

	// Classes is the class taxonomy file, if the dataset has one.
	Classes string

	// DataFile is the single file holding every record, for datasets that
	// are not split per page.
	DataFile string
}

// Patterns returns glob patterns matching the annotation files.
func (d *Dataset) Patterns() []string {
	patterns := make([]string, len(d.Extensions))
	for i, ext := range d.Extensions {
		patterns[i] = "*" + ext
	}
	return patterns
}

// Path joins a relative layout entry onto root.
func Path(root, rel string) string {
	if rel == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// Datasets maps dataset names to their layout.
// Populated by init() functions in per-dataset files.
var Datasets = map[string]*Dataset{}

// Lookup returns the layout registered under name.
func Lookup(name string) (*Dataset, error) {
	d, ok := Datasets[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the registered dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(Datasets))
	for name := range Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string][]string
var extensionOnce sync.Once

func getExtensionMap() map[string][]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string][]string)
		for _, name := range Names() {
			for _, ext := range Datasets[name].Extensions {
				extensionMap[ext] = append(extensionMap[ext], name)
			}
		}
	})
	return extensionMap
}

// ForExtension returns the sorted names of datasets whose annotations use ext,
// or nil if none do.
func ForExtension(ext string) []string {
	return getExtensionMap()[strings.ToLower(ext)]
}
