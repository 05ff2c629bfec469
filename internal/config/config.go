package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Report  ReportConfig  `yaml:"report"`
	Archive ArchiveConfig `yaml:"archive"`
	Publish PublishConfig `yaml:"publish"`
	Log     LogConfig     `yaml:"log"`
}

type ReportConfig struct {
	Path string `yaml:"path"`
}

type ArchiveConfig struct {
	// Path of the sqlite run archive. Empty disables archiving.
	Path string `yaml:"path"`
}

type PublishConfig struct {
	OutDir string `yaml:"out_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the yaml config at path. A missing file is not an error: the
// defaults apply, so the tools run without any configuration present.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Report.Path == "" {
		cfg.Report.Path = "research_report.json"
	}
	if cfg.Publish.OutDir == "" {
		cfg.Publish.OutDir = "site/data"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return &cfg, nil
}
