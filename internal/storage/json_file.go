package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"swapextract/internal/model"
)

// JSONFile writes decoded events as one indented JSON array.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the output file path.
func (f *JSONFile) Path() string {
	return f.path
}

// WriteEvents replaces the file contents with events. The write is not atomic.
func (f *JSONFile) WriteEvents(events []model.SwapEvent) error {
	if err := ensureDir(f.path); err != nil {
		return err
	}
	if events == nil {
		events = []model.SwapEvent{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}
