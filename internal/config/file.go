package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Empty values fall through to the defaults.
//
//	env: production
//	log_level: debug
//	tools:
//	  dir: /opt/mkvtoolnix
//	  use_path: false
//	  timeout: 2m
type fileConfig struct {
	Env      string    `yaml:"env"`
	LogLevel string    `yaml:"log_level"`
	Tools    fileTools `yaml:"tools"`
}

type fileTools struct {
	Dir       string `yaml:"dir"`
	UsePath   *bool  `yaml:"use_path"`
	Extractor string `yaml:"extractor"`
	Editor    string `yaml:"editor"`
	Timeout   string `yaml:"timeout"`
	TempDir   string `yaml:"temp_dir"`
}

func (t fileTools) usePath() bool {
	if t.UsePath == nil {
		return true
	}
	return *t.UsePath
}

// loadFileConfig reads the YAML config at path. With an empty path it searches the standard
// locations and returns a zero config when none exists.
func loadFileConfig(path string) (fileConfig, string, error) {
	var cfg fileConfig

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return cfg, "", fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, "", fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, path, nil
}

// FindConfigFile searches for a config file in standard locations.
// Returns empty string if not found (non-fatal).
func FindConfigFile() string {
	locations := []string{
		"./mkvchapters.yaml",
		"./mkvchapters.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".mkvchapters", "config.yaml"),
			filepath.Join(home, ".mkvchapters", "config.yml"),
		)
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
