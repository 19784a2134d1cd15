package presetboard

import "errors"

// ErrUninitialized is returned by a Backend that has never been written to.
var ErrUninitialized = errors.New("preset backend is not initialized")

type Backend interface {
	Read() (*Presets, error)
	Write(presets *Presets) error
}

type LoadResult struct {
	Presets *Presets
	// DefaultedDueTo is the read or parse error that caused the store to
	// fall back to DefaultPresets. It is nil when the backend was read.
	DefaultedDueTo error
}

func (r LoadResult) Defaulted() bool {
	return r.DefaultedDueTo != nil
}
