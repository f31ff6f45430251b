package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Results storage backends
const (
	ResultsMemory = "memory"
	ResultsFile   = "file"
	ResultsSQLite = "sqlite"
)

// ResultsSettings selects where finished games are recorded
type ResultsSettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LogSettings configures the zap logger
type LogSettings struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Settings is the server settings file
type Settings struct {
	Host        string          `yaml:"host"`
	Port        int             `yaml:"port"`
	LayoutsDir  string          `yaml:"layouts_dir"`
	SessionsDir string          `yaml:"sessions_dir"`
	Results     ResultsSettings `yaml:"results"`
	Log         LogSettings     `yaml:"log"`
}

// DefaultSettings returns the settings used when no file is given
func DefaultSettings() Settings {
	return Settings{
		Host:        "localhost",
		Port:        8080,
		LayoutsDir:  "layouts",
		SessionsDir: "sessions",
		Results: ResultsSettings{
			Backend: ResultsFile,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadSettings reads a YAML settings file on top of the defaults. An empty
// path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "open settings file")
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&settings); err != nil {
		return Settings{}, errors.Wrap(err, "decode settings file")
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks the settings for obviously wrong values
func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return errors.Errorf("settings: port must be between 1 and 65535, got %d", s.Port)
	}
	switch s.Results.Backend {
	case ResultsMemory, ResultsFile, ResultsSQLite:
	default:
		return errors.Errorf("settings: unknown results backend %q", s.Results.Backend)
	}
	return nil
}
