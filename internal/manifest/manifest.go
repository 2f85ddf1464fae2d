// Package manifest loads the YAML dataset manifest: the analysis-level
// configuration naming the reference dataset directory, the data-taking
// eras in use, the decay channels of interest and the default generator
// for branching-fraction lookups.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hepnorm/hepnorm/internal/refdata"
)

// Manifest is the analysis configuration.
type Manifest struct {
	// Dataset is the reference-table directory, relative to the manifest
	// file unless absolute.
	Dataset string `yaml:"dataset"`

	// Eras lists the data-taking periods the analysis covers. Every era
	// must have a recorded luminosity.
	Eras []refdata.Period `yaml:"eras"`

	// Channels lists the decay channels of interest.
	Channels []refdata.Channel `yaml:"channels,omitempty"`

	// Generator is the default generator for branching-fraction lookups.
	Generator refdata.Generator `yaml:"generator,omitempty"`

	// Registry is an optional default path for the sample registry
	// database, relative to the manifest file unless absolute.
	Registry string `yaml:"registry,omitempty"`
}

// Load reads and parses a manifest YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	// Resolve relative paths against the manifest's directory so the
	// manifest works no matter where the tool runs from.
	base := filepath.Dir(path)
	if !filepath.IsAbs(m.Dataset) {
		m.Dataset = filepath.Join(base, m.Dataset)
	}
	if m.Registry != "" && !filepath.IsAbs(m.Registry) {
		m.Registry = filepath.Join(base, m.Registry)
	}

	return &m, nil
}

func validate(m *Manifest) error {
	if m.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if len(m.Eras) == 0 {
		return fmt.Errorf("at least one era is required")
	}
	seen := make(map[refdata.Period]bool, len(m.Eras))
	for _, era := range m.Eras {
		if seen[era] {
			return fmt.Errorf("duplicate era %q", era)
		}
		seen[era] = true
		if _, err := refdata.RunPeriodOf(era); err != nil {
			return fmt.Errorf("era %q: %w", era, err)
		}
	}
	return nil
}
