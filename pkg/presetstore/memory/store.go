package memory

import (
	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"sync"
)

// Backend keeps presets in memory only. Until the first Write, Read reports
// presetboard.ErrUninitialized.
type Backend struct {
	presets *presetboard.Presets
	lock    sync.Mutex
	writes  int
}

func NewBackend() *Backend {
	return &Backend{}
}

// NewBackendWith returns a backend already holding presets.
func NewBackendWith(presets *presetboard.Presets) *Backend {
	return &Backend{presets: presets.Clone()}
}

func (b *Backend) Read() (*presetboard.Presets, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.presets == nil {
		return nil, presetboard.ErrUninitialized
	}
	return b.presets.Clone(), nil
}

func (b *Backend) Write(presets *presetboard.Presets) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.presets = presets.Clone()
	b.writes++
	return nil
}

// Writes reports how many times Write has been called.
func (b *Backend) Writes() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.writes
}
