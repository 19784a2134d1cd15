package presetboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyName = errors.New("preset name is empty")

type Preset struct {
	Description   string   `json:"description"`
	Apps          []string `json:"apps"`
	ClosePrevious bool     `json:"close_previous"`
}

// UnmarshalJSON treats a missing close_previous as true.
func (p *Preset) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description   string   `json:"description"`
		Apps          []string `json:"apps"`
		ClosePrevious *bool    `json:"close_previous"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Description = raw.Description
	p.Apps = raw.Apps
	p.ClosePrevious = true
	if raw.ClosePrevious != nil {
		p.ClosePrevious = *raw.ClosePrevious
	}

	return nil
}

func (p Preset) clone() Preset {
	apps := make([]string, len(p.Apps))
	copy(apps, p.Apps)
	p.Apps = apps
	return p
}

// Presets maps preset names to presets and remembers insertion order.
// The zero value is an empty collection ready to use.
type Presets struct {
	names  []string
	byName map[string]Preset
}

func NewPresets() *Presets {
	return &Presets{byName: make(map[string]Preset)}
}

func (ps *Presets) Len() int {
	return len(ps.names)
}

// Names returns preset names in insertion order.
func (ps *Presets) Names() []string {
	names := make([]string, len(ps.names))
	copy(names, ps.names)
	return names
}

func (ps *Presets) Get(name string) (Preset, bool) {
	p, ok := ps.byName[name]
	if !ok {
		return Preset{}, false
	}
	return p.clone(), true
}

// Set inserts or overwrites a preset. An overwritten preset keeps its position.
func (ps *Presets) Set(name string, p Preset) {
	if ps.byName == nil {
		ps.byName = make(map[string]Preset)
	}
	if _, ok := ps.byName[name]; !ok {
		ps.names = append(ps.names, name)
	}
	ps.byName[name] = p.clone()
}

func (ps *Presets) Delete(name string) bool {
	if _, ok := ps.byName[name]; !ok {
		return false
	}

	delete(ps.byName, name)
	for i, n := range ps.names {
		if n == name {
			ps.names = append(ps.names[:i:i], ps.names[i+1:]...)
			break
		}
	}

	return true
}

func (ps *Presets) Clone() *Presets {
	out := NewPresets()
	for _, name := range ps.names {
		out.Set(name, ps.byName[name])
	}
	return out
}

func (ps *Presets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range ps.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalUnescaped(name)
		if err != nil {
			return nil, fmt.Errorf("marshal name %q: %w", name, err)
		}
		value, err := marshalUnescaped(ps.byName[name])
		if err != nil {
			return nil, fmt.Errorf("marshal preset %q: %w", name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalUnescaped is json.Marshal without HTML escaping, so names like
// "R&D" stay readable in the stored file.
func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order of the document.
func (ps *Presets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := NewPresets()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read preset name: %w", err)
		}
		name := tok.(string)
		if name == "" {
			return ErrEmptyName
		}

		var p Preset
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("decode preset %q: %w", name, err)
		}
		out.Set(name, p)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read closing token: %w", err)
	}

	*ps = *out
	return nil
}
