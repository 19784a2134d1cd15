package presetboard

import (
	"fmt"
	"go.uber.org/zap"
	"sync"
)

// Store keeps the presets in memory and mirrors every change to its Backend.
type Store struct {
	backend Backend
	presets *Presets
	lock    sync.Mutex
	log     *zap.SugaredLogger
}

func NewStore(backend Backend, log *zap.SugaredLogger) *Store {
	return &Store{
		backend: backend,
		presets: NewPresets(),
		log:     log,
	}
}

// Load replaces the in-memory presets with the backend contents. If the
// backend cannot be read, the defaults are adopted and written back; the
// returned error is only set when that write fails.
func (s *Store) Load() (LoadResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	presets, err := s.backend.Read()
	if err == nil {
		s.presets = presets
		s.log.Debugw("loaded presets", "count", presets.Len())
		return LoadResult{Presets: presets.Clone()}, nil
	}

	defaults := DefaultPresets()
	s.presets = defaults
	result := LoadResult{Presets: defaults.Clone(), DefaultedDueTo: err}

	if err := s.backend.Write(defaults); err != nil {
		return result, fmt.Errorf("write default presets: %w", err)
	}

	return result, nil
}

// Save replaces the presets with the given ones and rewrites the backend.
func (s *Store) Save(presets *Presets) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.presets = presets.Clone()
	return s.save()
}

func (s *Store) save() error {
	if err := s.backend.Write(s.presets); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return nil
}

// Add inserts or overwrites the named preset and saves. Input is not validated.
func (s *Store) Add(name string, preset Preset) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.presets.Set(name, preset)
	s.log.Debugw("added preset", "name", name, "apps", preset.Apps)
	return s.save()
}

// Delete removes the named preset and saves. It reports false, without an
// error, when no such preset exists.
func (s *Store) Delete(name string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.presets.Delete(name) {
		return false, nil
	}

	s.log.Debugw("deleted preset", "name", name)
	if err := s.save(); err != nil {
		return true, err
	}

	return true, nil
}

func (s *Store) Get(name string) (Preset, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.presets.Get(name)
}

// Presets returns a copy of the current presets.
func (s *Store) Presets() *Presets {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.presets.Clone()
}
