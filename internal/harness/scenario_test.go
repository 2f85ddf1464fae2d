package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: sample
dataset: tables
cases:
  - process: TTto2L2Nu
    period: "2022"
    nmc: 1000000
    expect_weight: 0.7824
`)
	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", scenario.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tables"), scenario.Dataset)
	assert.Equal(t, 1e-9, scenario.Tolerance)
	require.Len(t, scenario.Cases, 1)
	require.NotNil(t, scenario.Cases[0].ExpectWeight)
	assert.Equal(t, 0.7824, *scenario.Cases[0].ExpectWeight)
}

func TestLoadScenarioAbsoluteDatasetKept(t *testing.T) {
	path := writeScenario(t, `
name: sample
dataset: /srv/refdata
tolerance: 1e-6
cases:
  - process: TT
    channels: [dilepton]
    run: run3
    expect_cross_section: 96.978
`)
	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/refdata", scenario.Dataset)
	assert.Equal(t, 1e-6, scenario.Tolerance)
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: sample
dataset: tables
tollerance: 1e-6
cases:
  - process: TT
    period: "2022"
    nmc: 100
    expect_weight: 1.0
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tollerance")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "dataset: tables\ncases:\n  - process: TT\n    period: \"2022\"\n    nmc: 1\n    expect_weight: 1.0\n",
			wantErr: "name is required",
		},
		{
			name:    "missing dataset",
			yaml:    "name: s\ncases:\n  - process: TT\n    period: \"2022\"\n    nmc: 1\n    expect_weight: 1.0\n",
			wantErr: "dataset is required",
		},
		{
			name:    "no cases",
			yaml:    "name: s\ndataset: tables\ncases: []\n",
			wantErr: "at least one case",
		},
		{
			name:    "missing process",
			yaml:    "name: s\ndataset: tables\ncases:\n  - period: \"2022\"\n    nmc: 1\n    expect_weight: 1.0\n",
			wantErr: "process is required",
		},
		{
			name:    "both expectations set",
			yaml:    "name: s\ndataset: tables\ncases:\n  - process: TT\n    period: \"2022\"\n    nmc: 1\n    expect_weight: 1.0\n    channels: [dilepton]\n    run: run3\n    expect_cross_section: 96.978\n",
			wantErr: "exactly one of",
		},
		{
			name:    "neither expectation set",
			yaml:    "name: s\ndataset: tables\ncases:\n  - process: TT\n    period: \"2022\"\n    nmc: 1\n",
			wantErr: "exactly one of",
		},
		{
			name:    "weight case without nmc",
			yaml:    "name: s\ndataset: tables\ncases:\n  - process: TT\n    period: \"2022\"\n    expect_weight: 1.0\n",
			wantErr: "need period and nmc",
		},
		{
			name:    "combination case without run",
			yaml:    "name: s\ndataset: tables\ncases:\n  - process: TT\n    channels: [dilepton]\n    expect_cross_section: 96.978\n",
			wantErr: "need channels and run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
