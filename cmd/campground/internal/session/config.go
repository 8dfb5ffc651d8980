package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml strings like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// FileConfig holds persistent CLI defaults, read from config.yaml in the
// session directory. Flags and environment variables override these.
type FileConfig struct {
	ServerURL    string   `yaml:"server_url"`
	Timeout      Duration `yaml:"timeout"`
	PollInterval Duration `yaml:"poll_interval"`
	CacheDir     string   `yaml:"cache_dir"`
}

// LoadConfig reads config.yaml from the store's directory. A missing file
// yields a zero config, not an error.
func (s *Store) LoadConfig() (*FileConfig, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
