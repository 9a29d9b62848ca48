package render

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/phobologic/omrprep/internal/geometry"
)

// BoundingBoxes collects where each generated symbol landed, keyed by
// "class/file". It is safe for concurrent use; a nil *BoundingBoxes ignores
// additions.
type BoundingBoxes struct {
	mu    sync.Mutex
	boxes map[string]geometry.Rectangle
}

// NewBoundingBoxes returns an empty collection.
func NewBoundingBoxes() *BoundingBoxes {
	return &BoundingBoxes{boxes: make(map[string]geometry.Rectangle)}
}

func (b *BoundingBoxes) Add(key string, r geometry.Rectangle) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boxes[key] = r
}

func (b *BoundingBoxes) Get(key string) (geometry.Rectangle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.boxes[key]
	return r, ok
}

func (b *BoundingBoxes) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.boxes)
}

// WriteJSON stores the collection as a JSON object; keys are sorted by
// encoding/json.
func (b *BoundingBoxes) WriteJSON(path string) error {
	b.mu.Lock()
	data, err := json.MarshalIndent(b.boxes, "", "  ")
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding bounding boxes: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
