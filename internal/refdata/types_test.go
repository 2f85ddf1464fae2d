package refdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/testutil"
)

func loadFixture(t *testing.T) *refdata.Dataset {
	t.Helper()
	ds, err := refdata.Load(testutil.WriteDataset(t))
	require.NoError(t, err)
	return ds
}

func TestRunPeriodOf(t *testing.T) {
	tests := []struct {
		period  refdata.Period
		want    refdata.RunPeriod
		wantErr bool
	}{
		{"2016preVFP", refdata.Run2, false},
		{"2017", refdata.Run2, false},
		{"2018", refdata.Run2, false},
		{"2022", refdata.Run3, false},
		{"2022EE", refdata.Run3, false},
		{"2023BPix", refdata.Run3, false},
		{"2011", "", true}, // Run 1 is out of scope
		{"20", "", true},
		{"nope", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			run, err := refdata.RunPeriodOf(tt.period)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, refdata.ErrCodeUnknownPeriod, refdata.LookupCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, run)
		})
	}
}

func TestLuminosityLookup(t *testing.T) {
	ds := loadFixture(t)

	lumi, err := ds.LuminosityFor("2022")
	require.NoError(t, err)
	assert.InDelta(t, 7980.4, lumi, 1e-9)
}

func TestLuminosityLookupMissingPeriod(t *testing.T) {
	ds := loadFixture(t)

	_, err := ds.LuminosityFor("2019")
	require.Error(t, err)
	assert.True(t, refdata.IsNotFound(err))
	assert.Equal(t, refdata.ErrCodeMissingPeriod, refdata.LookupCode(err))
	assert.Contains(t, err.Error(), "2019")
}

func TestCrossSectionPerRunTablesAreDistinct(t *testing.T) {
	ds := loadFixture(t)

	run3, err := ds.CrossSection("TT", refdata.Run3)
	require.NoError(t, err)
	run2, err := ds.CrossSection("TT", refdata.Run2)
	require.NoError(t, err)
	assert.NotEqual(t, run2, run3)

	// Run 2 naming is absent from the Run 3 table.
	_, err = ds.CrossSection("TTTo2L2Nu", refdata.Run3)
	require.Error(t, err)
	assert.Equal(t, refdata.ErrCodeMissingProcess, refdata.LookupCode(err))
}

func TestCrossSectionForPeriod(t *testing.T) {
	ds := loadFixture(t)

	sigma, err := ds.CrossSectionForPeriod("TTto2L2Nu", "2022EE")
	require.NoError(t, err)
	assert.InDelta(t, 98.04, sigma, 1e-9)

	sigma, err = ds.CrossSectionForPeriod("TTTo2L2Nu", "2018")
	require.NoError(t, err)
	assert.InDelta(t, 88.29, sigma, 1e-9)
}

func TestBranchingFractionLookup(t *testing.T) {
	ds := loadFixture(t)

	frac, err := ds.BranchingFraction("TT", "dilepton", "powheg")
	require.NoError(t, err)
	assert.InDelta(t, 0.105, frac, 1e-12)
}

func TestBranchingFractionMisses(t *testing.T) {
	ds := loadFixture(t)

	_, err := ds.BranchingFraction("ZZ", "dilepton", "powheg")
	assert.Equal(t, refdata.ErrCodeMissingProcess, refdata.LookupCode(err))

	_, err = ds.BranchingFraction("TT", "tauonic", "powheg")
	assert.Equal(t, refdata.ErrCodeMissingChannel, refdata.LookupCode(err))

	_, err = ds.BranchingFraction("TT", "semileptonic", "madgraph")
	assert.Equal(t, refdata.ErrCodeMissingGenerator, refdata.LookupCode(err))
}

func TestChannelsSorted(t *testing.T) {
	ds := loadFixture(t)

	channels, err := ds.Channels("TT")
	require.NoError(t, err)
	assert.Equal(t, []refdata.Channel{"dilepton", "hadronic", "semileptonic"}, channels)
}

func TestProcessesSorted(t *testing.T) {
	ds := loadFixture(t)

	procs, err := ds.Processes(refdata.Run3)
	require.NoError(t, err)
	assert.Equal(t, []refdata.Process{"DYto2L_M50", "TT", "TTto2L2Nu", "TTtoLNu2Q"}, procs)
}

func TestPeriodsSorted(t *testing.T) {
	ds := loadFixture(t)
	assert.Equal(t, []refdata.Period{"2018", "2022", "2022EE", "2023"}, ds.Periods())
}
