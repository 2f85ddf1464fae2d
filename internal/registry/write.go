package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BeginImport records a new import run and returns its record. The ID is
// a fresh UUID; created_at is wall-clock UTC, which is provenance metadata
// only and never participates in ordering or identity.
func (r *Registry) BeginImport(ctx context.Context, datasetFingerprint, source string) (ImportRecord, error) {
	rec := ImportRecord{
		ID:                 uuid.NewString(),
		DatasetFingerprint: datasetFingerprint,
		Source:             source,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO imports (id, dataset_fingerprint, source, created_at)
		VALUES (?, ?, ?, ?)
	`, rec.ID, rec.DatasetFingerprint, rec.Source, rec.CreatedAt)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("begin import: %w", err)
	}

	return rec, nil
}

// PutSample registers an event count under the given import run.
// Re-registering the same (process, period, generator) replaces the count
// and the provenance link; counts are reference data, not an append log.
func (r *Registry) PutSample(ctx context.Context, s Sample) error {
	if !(s.EventCount > 0) {
		return fmt.Errorf("put sample %s/%s: event count %v must be positive", s.Process, s.Period, s.EventCount)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO samples (process, period, generator, n_mc, import_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(process, period, generator) DO UPDATE SET
			n_mc = excluded.n_mc,
			import_id = excluded.import_id
	`,
		string(s.Process),
		string(s.Period),
		string(s.Generator),
		s.EventCount,
		s.ImportID,
	)
	if err != nil {
		return fmt.Errorf("put sample %s/%s: %w", s.Process, s.Period, err)
	}

	return nil
}
