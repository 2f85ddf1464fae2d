package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepnorm/hepnorm/internal/schema"
	"github.com/hepnorm/hepnorm/internal/testutil"
)

func TestValidateLuminosityValid(t *testing.T) {
	data := []byte(`{"2022": 7980.4, "2022EE": 26671.7}`)
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", data)
	assert.Empty(t, errs)
}

func TestValidateLuminosityNegativeValue(t *testing.T) {
	data := []byte(`{"2022": -1.0}`)
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", data)
	require.NotEmpty(t, errs)
	assert.Equal(t, schema.ErrValueRange, errs[0].Code)
	assert.Equal(t, "luminosity.json", errs[0].File)
}

func TestValidateLuminosityBadPeriodLabel(t *testing.T) {
	// Period labels must start with a four-digit year.
	data := []byte(`{"runX": 100.0}`)
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", data)
	assert.NotEmpty(t, errs)
}

func TestValidateCrossSectionsWrongShape(t *testing.T) {
	data := []byte(`{"TT": "lots"}`)
	errs := schema.ValidateTable(schema.KindCrossSections, "cross_sections.json", data)
	require.NotEmpty(t, errs)
	assert.Contains(t, []string{schema.ErrWrongShape, schema.ErrValueRange}, errs[0].Code)
}

func TestValidateCrossSectionsCollectsAllErrors(t *testing.T) {
	data := []byte(`{"A": -1, "B": 0, "C": 5.0}`)
	errs := schema.ValidateTable(schema.KindCrossSections, "cross_sections.json", data)
	assert.GreaterOrEqual(t, len(errs), 2, "both bad entries should be reported")
}

func TestValidateBranchingValid(t *testing.T) {
	data := []byte(`{"TT": {"dilepton": {"powheg": 0.105}}}`)
	errs := schema.ValidateTable(schema.KindBranching, "branching_fractions_runII.json", data)
	assert.Empty(t, errs)
}

func TestValidateBranchingFractionAboveOne(t *testing.T) {
	data := []byte(`{"TT": {"dilepton": {"powheg": 1.5}}}`)
	errs := schema.ValidateTable(schema.KindBranching, "branching_fractions_runII.json", data)
	require.NotEmpty(t, errs)
	assert.Equal(t, schema.ErrFractionRange, errs[0].Code)
	assert.Contains(t, errs[0].Field, "TT")
}

func TestValidateDuplicateKey(t *testing.T) {
	data := []byte(`{"2022": 7980.4, "2022": 8000.0}`)
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", data)
	require.NotEmpty(t, errs)
	assert.Equal(t, schema.ErrDuplicateKey, errs[0].Code)
	assert.Equal(t, "2022", errs[0].Field)
}

func TestValidateNestedDuplicateKey(t *testing.T) {
	data := []byte(`{"TT": {"dilepton": {"powheg": 0.105, "powheg": 0.104}}}`)
	errs := schema.ValidateTable(schema.KindBranching, "branching_fractions_runII.json", data)
	require.NotEmpty(t, errs)
	assert.Equal(t, schema.ErrDuplicateKey, errs[0].Code)
	assert.Equal(t, "TT.dilepton.powheg", errs[0].Field)
}

func TestValidateEmptyTable(t *testing.T) {
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", []byte(`{}`))
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrEmptyTable, errs[0].Code)
}

func TestValidateNotJSON(t *testing.T) {
	errs := schema.ValidateTable(schema.KindLuminosity, "luminosity.json", []byte(`not json`))
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrDecodeFailed, errs[0].Code)
}

func TestValidateDirCleanDataset(t *testing.T) {
	dir := testutil.WriteDataset(t)

	errs, err := schema.ValidateDir(dir)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateDirMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()

	_, err := schema.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "luminosity.json")
}

func TestValidateDirOptionalRun2Table(t *testing.T) {
	dir := testutil.WriteDatasetWith(t,
		testutil.FixtureLuminosity,
		testutil.FixtureCrossSectionsRun3,
		nil,
		testutil.FixtureBranching,
	)

	errs, err := schema.ValidateDir(dir)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateDirReportsBadTable(t *testing.T) {
	lumi := map[string]float64{"2022": -7980.4}
	dir := testutil.WriteDatasetWith(t, lumi, testutil.FixtureCrossSectionsRun3, nil, testutil.FixtureBranching)

	errs, err := schema.ValidateDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, "luminosity.json", errs[0].File)
}
