package vexsql

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .vexsql.yaml configuration file.
type Config struct {
	// Schema is the path to a .vex schema file. Empty means the built-in
	// social-media schema.
	Schema string `yaml:"schema,omitempty"`

	// Count is the number of base queries to generate.
	Count int `yaml:"count,omitempty"`

	// Seed drives both query generation and rendering.
	Seed int64 `yaml:"seed,omitempty"`

	// Output is the dataset file to write. Empty means stdout.
	Output string `yaml:"output,omitempty"`

	// Compound enables one multi-perturbation variant per record.
	Compound bool `yaml:"compound,omitempty"`

	// Weights overrides the complexity-class distribution.
	// Keys are the complexity names (simple, join, aggregate, advanced,
	// insert, update, delete).
	Weights map[string]float64 `yaml:"weights,omitempty"`

	// VerifyRows is the synthetic row count per table used by the verify
	// command.
	VerifyRows int `yaml:"verify_rows,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".vexsql.yaml", ".vexsql.yml", "vexsql.yaml", "vexsql.yml"}

// LoadConfig finds and loads the nearest .vexsql.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
