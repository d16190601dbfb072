package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/kc2g-flex-tools/audiotoggle/profile"
)

// ConfigStore handles persistent storage of the two profiles
type ConfigStore struct {
	filepath string
}

// NewConfigStore creates a ConfigStore at path, or at
// $XDG_CONFIG_HOME/audiotoggle/config.toml when path is empty
func NewConfigStore(path string) (*ConfigStore, error) {
	if path != "" {
		return &ConfigStore{filepath: path}, nil
	}
	path, err := xdg.ConfigFile("audiotoggle/config.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to get config file path: %w", err)
	}
	return &ConfigStore{filepath: path}, nil
}

func (cs *ConfigStore) Path() string {
	return cs.filepath
}

// Load reads the stored config. A missing file yields the defaults and no
// error; an unreadable or unparsable one yields the defaults and the error.
func (cs *ConfigStore) Load() (profile.AppConfig, error) {
	cfg := profile.DefaultAppConfig()

	data, err := os.ReadFile(cs.filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	parsed := profile.DefaultAppConfig()
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", cs.filepath, err)
	}
	if !parsed.CurrentProfile.Valid() {
		parsed.CurrentProfile = profile.A
	}
	return parsed, nil
}

// Save writes cfg to disk. The previous file is replaced only once the new
// contents have been written in full.
func (cs *ConfigStore) Save(cfg profile.AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("toml encode failed: %w", err)
	}

	dir := filepath.Dir(cs.filepath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return os.Rename(tmp.Name(), cs.filepath)
}
