package json

import (
	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend stores presets as an indented JSON object in a single file.
type Backend struct {
	filename string
	lock     sync.Mutex
}

func NewBackend(filename string) *Backend {
	return &Backend{filename: filename}
}

func (b *Backend) Filename() string {
	return b.filename
}

func (b *Backend) Read() (*presetboard.Presets, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	data, err := os.ReadFile(b.filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	presets := presetboard.NewPresets()
	if err := json.Unmarshal(data, presets); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	return presets, nil
}

// Write truncates the file and writes all presets to it.
func (b *Backend) Write(presets *presetboard.Presets) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.filename), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.OpenFile(b.filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(presets); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}
