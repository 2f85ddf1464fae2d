package registry

import "github.com/hepnorm/hepnorm/internal/refdata"

// Sample is one registered Monte Carlo sample: the simulated-event count
// for a (process, period, generator) triple, plus the import run that
// registered it.
type Sample struct {
	Process    refdata.Process   `json:"process"`
	Period     refdata.Period    `json:"period"`
	Generator  refdata.Generator `json:"generator,omitempty"`
	EventCount float64           `json:"n_mc"`
	ImportID   string            `json:"import_id"`
}

// ImportRecord describes one import run.
type ImportRecord struct {
	ID                 string `json:"id"`
	DatasetFingerprint string `json:"dataset_fingerprint"`
	Source             string `json:"source"`
	CreatedAt          string `json:"created_at"` // RFC 3339 UTC
}
