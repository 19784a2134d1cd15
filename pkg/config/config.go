package config

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
)

const appName = "presetboard"

type StoreKind string

const (
	StoreJSON   StoreKind = "json"
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

type Config struct {
	Store  StoreKind `yaml:"store"`
	Path   string    `yaml:"path"`
	Socket string    `yaml:"socket"`
	Debug  bool      `yaml:"debug"`
}

func Default() Config {
	return Config{Store: StoreJSON}
}

// DefaultFile returns the config file location under the XDG config home.
func DefaultFile() (string, error) {
	path, err := xdg.ConfigFile(appName + "/config.yaml")
	if err != nil {
		return "", fmt.Errorf("resolve config file: %w", err)
	}
	return path, nil
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error when optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreJSON, StoreSQLite, StoreMemory:
		return nil
	}
	return fmt.Errorf("unknown store %q, expected json, sqlite or memory", c.Store)
}

// StorePath returns the configured path, or the default XDG location for the
// store kind. Parent directories of default locations are created.
func (c Config) StorePath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}

	var (
		path string
		err  error
	)
	switch c.Store {
	case StoreSQLite:
		path, err = xdg.DataFile(appName + "/presets.db")
	default:
		path, err = xdg.ConfigFile(appName + "/presets.json")
	}
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}

	return path, nil
}
