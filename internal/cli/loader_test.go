package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepnorm/hepnorm/internal/testutil"
)

// writeManifest writes an analysis manifest next to a fixture dataset and
// returns its path.
func writeManifest(t *testing.T, dataset, registry, generator string) string {
	t.Helper()
	content := fmt.Sprintf("dataset: %s\neras: [\"2022\", \"2023\"]\ngenerator: %s\n", dataset, generator)
	if registry != "" {
		content += fmt.Sprintf("registry: %s\n", registry)
	}
	path := filepath.Join(t.TempDir(), "analysis.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManifestProvidesDataset(t *testing.T) {
	dir := testutil.WriteDataset(t)
	m := writeManifest(t, dir, "", "powheg")

	out, _, err := execute(t, "--manifest", m, "lumi", "2022")
	require.NoError(t, err)
	assert.Equal(t, "7980.4 pb^-1\n", out)
}

func TestManifestProvidesGenerator(t *testing.T) {
	dir := testutil.WriteDataset(t)
	m := writeManifest(t, dir, "", "powheg")

	// No --generator flag: the manifest's default applies.
	out, _, err := execute(t, "--manifest", m, "bf", "TT", "dilepton")
	require.NoError(t, err)
	assert.Equal(t, "0.105\n", out)
}

func TestGeneratorFlagOverridesManifest(t *testing.T) {
	dir := testutil.WriteDataset(t)
	m := writeManifest(t, dir, "", "powheg")

	out, _, err := execute(t, "--manifest", m, "bf", "TT", "dilepton", "--generator", "madgraph")
	require.NoError(t, err)
	assert.Equal(t, "0.104\n", out)
}

func TestDatasetFlagOverridesManifest(t *testing.T) {
	manifestDir := testutil.WriteDatasetWith(t,
		map[string]float64{"2022": 1.0},
		testutil.FixtureCrossSectionsRun3, testutil.FixtureCrossSectionsRun2, testutil.FixtureBranching)
	flagDir := testutil.WriteDataset(t)
	m := writeManifest(t, manifestDir, "", "powheg")

	out, _, err := execute(t, "--manifest", m, "--dataset", flagDir, "lumi", "2022")
	require.NoError(t, err)
	assert.Equal(t, "7980.4 pb^-1\n", out)
}

func TestManifestProvidesRegistry(t *testing.T) {
	dir := testutil.WriteDataset(t)
	db := seedRegistry(t, map[string]map[string]float64{
		"DYto2L_M50": {"2023": 2.5e7},
	})
	m := writeManifest(t, dir, db, "powheg")

	out, _, err := execute(t, "--manifest", m, "weight", "DYto2L_M50", "2023")
	require.NoError(t, err)
	assert.Equal(t, "4.5168218424\n", out)
}

func TestBrokenManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: tables\neras: []\n"), 0o644))

	out, _, err := execute(t, "--format", "json", "--manifest", path, "lumi", "2022")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecodeFailed, resp.Error.Code)
}
