package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepnorm/hepnorm/internal/registry"
	"github.com/hepnorm/hepnorm/internal/testutil"
)

func TestImportRegistersCounts(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")
	counts := testutil.WriteCounts(t, map[string]map[string]float64{
		"TTto2L2Nu":  {"2022": 1e6, "2022EE": 3.2e6},
		"DYto2L_M50": {"2023": 2.5e7},
	})

	out, _, err := execute(t, "--dataset", dir, "--format", "json",
		"import", counts, "--db", db)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 3.0, data["samples"])
	assert.NotEmpty(t, data["import_id"])
	assert.NotEmpty(t, data["dataset_fingerprint"])

	reg, err := registry.Open(db)
	require.NoError(t, err)
	defer reg.Close()

	samples, err := reg.ListSamples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 3)
	// Deterministic order: process, then period.
	assert.Equal(t, "DYto2L_M50", string(samples[0].Process))
	assert.Equal(t, "TTto2L2Nu", string(samples[1].Process))
	assert.Equal(t, "2022", string(samples[1].Period))
	assert.Equal(t, 1e6, samples[1].EventCount)
}

func TestImportRecordsProvenance(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")
	counts := testutil.WriteCounts(t, map[string]map[string]float64{
		"TTto2L2Nu": {"2022": 1e6},
	})

	_, _, err := execute(t, "--dataset", dir, "import", counts, "--db", db)
	require.NoError(t, err)

	reg, err := registry.Open(db)
	require.NoError(t, err)
	defer reg.Close()

	imports, err := reg.Imports(context.Background())
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, counts, imports[0].Source)
	assert.NotEmpty(t, imports[0].DatasetFingerprint)

	samples, err := reg.ListSamples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, imports[0].ID, samples[0].ImportID)
}

func TestImportRejectsUnknownProcess(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")
	counts := testutil.WriteCounts(t, map[string]map[string]float64{
		"WJets": {"2022": 1e6},
	})

	out, _, err := execute(t, "--dataset", dir, "--format", "json",
		"import", counts, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_PROCESS", resp.Error.Code)

	// Nothing was written: the cross-check runs before the registry opens.
	reg, err := registry.Open(db)
	require.NoError(t, err)
	defer reg.Close()
	samples, err := reg.ListSamples(context.Background())
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestImportRejectsUnknownPeriod(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")
	counts := testutil.WriteCounts(t, map[string]map[string]float64{
		"TTto2L2Nu": {"2019": 1e6},
	})

	out, _, err := execute(t, "--dataset", dir, "--format", "json",
		"import", counts, "--db", db)
	require.Error(t, err)

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_PERIOD", resp.Error.Code)
}

func TestImportReplacesExistingCount(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")

	first := testutil.WriteCounts(t, map[string]map[string]float64{
		"TTto2L2Nu": {"2022": 1e6},
	})
	_, _, err := execute(t, "--dataset", dir, "import", first, "--db", db)
	require.NoError(t, err)

	second := testutil.WriteCounts(t, map[string]map[string]float64{
		"TTto2L2Nu": {"2022": 2e6},
	})
	_, _, err = execute(t, "--dataset", dir, "import", second, "--db", db)
	require.NoError(t, err)

	reg, err := registry.Open(db)
	require.NoError(t, err)
	defer reg.Close()

	samples, err := reg.ListSamples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 2e6, samples[0].EventCount)
}

func TestImportMissingCountsFile(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := filepath.Join(t.TempDir(), "samples.db")

	out, _, err := execute(t, "--dataset", dir, "--format", "json",
		"import", filepath.Join(t.TempDir(), "nope.json"), "--db", db)
	require.Error(t, err)

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecodeFailed, resp.Error.Code)
}
