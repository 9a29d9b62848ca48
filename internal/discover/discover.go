// Package discover finds dataset files under a directory tree.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileEntry represents a discovered file.
type FileEntry struct {
	Path string // Relative to the search root
	Base string // File name without extension
}

var skipDirs = map[string]struct{}{
	"__MACOSX":    {},
	"__pycache__": {},
	".git":        {},
	".hg":         {},
	".svn":        {},
}

// ignoreFiles are read from the search root, in order.
var ignoreFiles = []string{".gitignore", ".omrignore"}

// Files discovers files under root whose name matches one of the glob
// patterns (e.g. "*.xml"). Matching is case-insensitive. With no patterns,
// every file is returned.
func Files(root string, patterns ...string) ([]FileEntry, error) {
	ignores := loadIgnores(root)

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		for _, gi := range ignores {
			if gi.MatchesPath(rel) {
				return nil
			}
		}

		if !matchesAny(name, patterns) {
			return nil
		}

		results = append(results, FileEntry{
			Path: rel,
			Base: strings.TrimSuffix(name, filepath.Ext(name)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if ok, _ := filepath.Match(strings.ToLower(p), lower); ok {
			return true
		}
	}
	return false
}

func loadIgnores(root string) []*ignore.GitIgnore {
	var ignores []*ignore.GitIgnore
	for _, name := range ignoreFiles {
		gi, err := ignore.CompileIgnoreFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		ignores = append(ignores, gi)
	}
	return ignores
}

// Pair is an annotation file matched with the image it describes.
type Pair struct {
	Annotation FileEntry
	Image      FileEntry
}

// PairByBase matches every annotation with the image of the same base name.
// When several images share a base name, the first in path order wins.
// Annotations without an image are returned separately, in input order.
func PairByBase(annotations, images []FileEntry) (pairs []Pair, unmatched []FileEntry) {
	byBase := make(map[string]FileEntry, len(images))
	for _, img := range images {
		if _, dup := byBase[img.Base]; !dup {
			byBase[img.Base] = img
		}
	}
	for _, a := range annotations {
		img, ok := byBase[a.Base]
		if !ok {
			unmatched = append(unmatched, a)
			continue
		}
		pairs = append(pairs, Pair{Annotation: a, Image: img})
	}
	return pairs, unmatched
}
