package cli

import (
	"fmt"

	"github.com/hepnorm/hepnorm/internal/manifest"
	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/registry"
)

// Error codes (E001-E099: loader and command plumbing).
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNoDataset    = "E002" // No dataset configured
	ErrCodeNoRegistry   = "E003" // No registry database configured
	ErrCodeDecodeFailed = "E004" // File decode failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeSchemaBroken = "E006" // Schema validation machinery failed
	ErrCodeWriteFailed  = "E007" // Write error
)

// LoadError represents an error that occurred while resolving inputs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// resolveInputs resolves the dataset directory and (optionally) the
// manifest from the global flags. Flag --dataset overrides the manifest's
// dataset path; everything else in the manifest stays authoritative.
func resolveInputs(opts *RootOptions) (dir string, m *manifest.Manifest, err error) {
	if opts.Manifest != "" {
		m, err = manifest.Load(opts.Manifest)
		if err != nil {
			return "", nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()}
		}
		dir = m.Dataset
	}
	if opts.Dataset != "" {
		dir = opts.Dataset
	}
	if dir == "" {
		return "", nil, &LoadError{Code: ErrCodeNoDataset, Message: "no dataset: pass --dataset or --manifest"}
	}
	return dir, m, nil
}

// loadDataset resolves and loads the reference tables.
func loadDataset(opts *RootOptions, formatter *OutputFormatter) (*refdata.Dataset, *manifest.Manifest, error) {
	dir, m, err := resolveInputs(opts)
	if err != nil {
		return nil, nil, err
	}

	ds, err := refdata.Load(dir)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("loading dataset %s: %v", dir, err)}
	}

	formatter.VerboseLog("loaded dataset %s (fingerprint %s)", dir, ds.Fingerprint[:12])
	return ds, m, nil
}

// resolveManifestOnly loads the manifest if one was given. Commands that
// never touch the reference tables still honor its registry path.
func resolveManifestOnly(opts *RootOptions) (*manifest.Manifest, error) {
	if opts.Manifest == "" {
		return nil, nil
	}
	m, err := manifest.Load(opts.Manifest)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()}
	}
	return m, nil
}

// openRegistry opens the sample registry at the flag path, falling back to
// the manifest's registry path.
func openRegistry(dbFlag string, m *manifest.Manifest) (*registry.Registry, error) {
	path := dbFlag
	if path == "" && m != nil {
		path = m.Registry
	}
	if path == "" {
		return nil, &LoadError{Code: ErrCodeNoRegistry, Message: "no registry database: pass --db or set registry in the manifest"}
	}

	reg, err := registry.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("opening registry %s: %v", path, err)}
	}
	return reg, nil
}

// defaultGenerator resolves the generator for branching-fraction lookups:
// explicit flag first, then the manifest's default.
func defaultGenerator(flag string, m *manifest.Manifest) (refdata.Generator, error) {
	if flag != "" {
		return refdata.Generator(flag), nil
	}
	if m != nil && m.Generator != "" {
		return m.Generator, nil
	}
	return "", &LoadError{Code: ErrCodeGeneric, Message: "no generator: pass --generator or set one in the manifest"}
}
