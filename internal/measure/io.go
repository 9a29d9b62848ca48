package measure

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/phobologic/omrprep/internal/model"
)

// ReadPage loads a per-page measure annotation file.
func ReadPage(path string) (model.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Page{}, err
	}
	var p model.Page
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Page{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return p, nil
}

// WritePage stores p as indented JSON.
func WritePage(path string, p model.Page) error {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
