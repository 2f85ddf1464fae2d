package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hepnorm/hepnorm/internal/refdata"
)

// SampleCount returns the registered simulated-event count for a
// (process, period, generator) triple. A missing row is a
// refdata.LookupError with code MISSING_SAMPLE, never a silent zero.
func (r *Registry) SampleCount(ctx context.Context, proc refdata.Process, period refdata.Period, gen refdata.Generator) (float64, error) {
	var nmc float64
	err := r.db.QueryRowContext(ctx, `
		SELECT n_mc FROM samples
		WHERE process = ? AND period = ? AND generator = ?
	`, string(proc), string(period), string(gen)).Scan(&nmc)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &refdata.LookupError{
			Code:    ErrCodeMissingSample,
			Table:   "samples",
			Key:     fmt.Sprintf("%s/%s", proc, period),
			Message: "no event count registered; run import first",
		}
	}
	if err != nil {
		return 0, fmt.Errorf("query sample count: %w", err)
	}
	return nmc, nil
}

// ErrCodeMissingSample indicates no event count is registered for the key.
const ErrCodeMissingSample refdata.LookupErrorCode = "MISSING_SAMPLE"

// ListSamples returns every registered sample with deterministic ordering.
// Returns an empty slice (not nil) if the registry holds no samples.
func (r *Registry) ListSamples(ctx context.Context) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT process, period, generator, n_mc, import_id
		FROM samples
		ORDER BY process ASC, period ASC, generator ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var proc, period, gen string
		if err := rows.Scan(&proc, &period, &gen, &s.EventCount, &s.ImportID); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		s.Process = refdata.Process(proc)
		s.Period = refdata.Period(period)
		s.Generator = refdata.Generator(gen)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	if samples == nil {
		samples = []Sample{}
	}
	return samples, nil
}

// SamplesForPeriod returns the registered samples for one period with
// deterministic ordering.
func (r *Registry) SamplesForPeriod(ctx context.Context, period refdata.Period) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT process, period, generator, n_mc, import_id
		FROM samples
		WHERE period = ?
		ORDER BY process ASC, generator ASC
	`, string(period))
	if err != nil {
		return nil, fmt.Errorf("query samples for %s: %w", period, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var proc, per, gen string
		if err := rows.Scan(&proc, &per, &gen, &s.EventCount, &s.ImportID); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		s.Process = refdata.Process(proc)
		s.Period = refdata.Period(per)
		s.Generator = refdata.Generator(gen)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	if samples == nil {
		samples = []Sample{}
	}
	return samples, nil
}

// Imports returns all import runs, most recent last (insertion order by
// created_at then id for determinism when timestamps collide).
func (r *Registry) Imports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dataset_fingerprint, source, created_at
		FROM imports
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var imports []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.DatasetFingerprint, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}

	if imports == nil {
		imports = []ImportRecord{}
	}
	return imports, nil
}
