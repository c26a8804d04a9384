package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/feature/yaml"
	"github.com/antoniolopezmc/subgroups-sub001/reporter"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadata = `
features:
  a1: [a, b, c]
  a2: [q, s]
  a3: [f, g, h, k]
  class: [n, y]
`

const data = `a1,a2,a3,class
a,q,f,n
b,q,g,y
c,s,h,n
c,q,k,y
`

func loadMineConfig(t *testing.T, args ...string) *mineCmdConfig {
	root := &rootCmdConfig{}
	cmd := mineCmd(root)
	require.NoError(t, cmd.ParseFlags(args))
	config := &mineCmdConfig{rootCmdConfig: root, v: viper.New()}
	require.NoError(t, config.Load(cmd))
	return config
}

func discard(string, ...interface{}) {}

func TestBackendFor(t *testing.T) {
	for location, expected := range map[string]backend{
		"":                                 csvBackend,
		"data.csv":                         csvBackend,
		"data.db":                          sqlite3Backend,
		"postgresql://localhost/subgroups": postgresqlBackend,
		"postgres://localhost/subgroups":   postgresqlBackend,
		"mongodb://localhost/subgroups":    mongodbBackend,
	} {
		assert.Equal(t, expected, backendFor(location), location)
	}
	assert.Equal(t, "SQLite3", sqlite3Backend.String())
}

func TestMineThresholdFromFlags(t *testing.T) {
	config := loadMineConfig(t, "-m", "md.yml", "-t", "class=y", "--minimum-n", "2")
	require.NoError(t, config.Validate())
	th, err := config.Threshold()
	require.NoError(t, err)
	assert.Equal(t, tree.CombinedThreshold{MinN: 2}, th)

	config = loadMineConfig(t, "--minimum-tp", "1", "--minimum-fp", "0")
	th, err = config.Threshold()
	require.NoError(t, err)
	assert.Equal(t, tree.SeparateThreshold{MinTP: 1, MinFP: 0}, th)
}

func TestMineThresholdErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"--minimum-tp", "1"},
		{"--minimum-tp", "1", "--minimum-fp", "1", "--minimum-n", "1"},
		{"--minimum-n", "-1"},
	} {
		_, err := loadMineConfig(t, args...).Threshold()
		assert.ErrorIs(t, err, tree.ErrInconsistentThresholds, "%v", args)
	}
}

func TestMineConfigFromEnvironmentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yml")
	require.NoError(t, os.WriteFile(path, []byte("metadata: md.yml\ntarget: class=y\nminimum-tp: 1\nminimum-fp: 2\nformat: table\n"), 0644))

	config := loadMineConfig(t, "--config", path)
	require.NoError(t, config.Validate())
	assert.Equal(t, "table", config.v.GetString(formatKey))
	th, err := config.Threshold()
	require.NoError(t, err)
	assert.Equal(t, tree.SeparateThreshold{MinTP: 1, MinFP: 2}, th)

	t.Setenv("SUBGROUPS_FORMAT", "json")
	config = loadMineConfig(t, "--config", path)
	assert.Equal(t, "json", config.v.GetString(formatKey))

	config = loadMineConfig(t, "--config", path, "--format", "text")
	assert.Equal(t, "text", config.v.GetString(formatKey))
}

func TestMineValidate(t *testing.T) {
	for _, args := range [][]string{
		{"-t", "class=y"},
		{"-m", "md.yml"},
		{"-m", "md.yml", "-t", "class=y", "--format", "xml"},
		{"-m", "md.yml", "-t", "class=y", "--top", "-1"},
		{"-m", "md.yml", "-t", "class=y", "--redis-addr", "localhost:6379"},
		{"-m", "md.yml", "-t", "class=y", "--memory-intensive", "--cpu-intensive"},
	} {
		assert.Error(t, loadMineConfig(t, args...).Validate(), "%v", args)
	}
}

func TestMineReporterWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subgroups.json")
	config := loadMineConfig(t, "-m", "md.yml", "-t", "class=y", "-o", path, "--format", "json", "--top", "1")
	r, err := config.Reporter()
	require.NoError(t, err)
	for _, q := range []float64{0.1, 0.3} {
		require.NoError(t, r.Report(&subgroups.Subgroup{
			Pattern:        subgroups.Pattern{feature.NewSelector("a1", feature.Equal, "b")},
			Target:         feature.NewTarget("class", "y"),
			Counts:         tree.Counts{TP: 1},
			Totals:         tree.Counts{TP: 2, FP: 2},
			Quality:        q,
			QualityMeasure: "WRAcc",
		}))
	}
	require.NoError(t, r.Close())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"quality":0.3`)
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(false, buf).Logf("reading %s", "features")
	assert.Empty(t, buf.String())

	newLogger(true, buf).Logf("reading %s", "features")
	assert.Contains(t, buf.String(), "reading features")
}

func TestCopyDatasetToSQLite3AndMine(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	dbPath := filepath.Join(dir, "data.db")
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0644))
	features, err := yaml.ReadFeatures([]byte(metadata))
	require.NoError(t, err)

	output, closeOutput, err := createDataset(ctx, discard, dbPath, features)
	require.NoError(t, err)
	samples, errs, closeInput, err := streamDataset(ctx, discard, csvPath, features)
	require.NoError(t, err)
	for s := range samples {
		_, err = output.Write(ctx, []dataset.Sample{s})
		require.NoError(t, err)
	}
	require.NoError(t, <-errs)
	require.NoError(t, output.Flush())
	require.NoError(t, closeInput())
	require.NoError(t, closeOutput())

	for _, location := range []string{csvPath, dbPath} {
		ds, closeDataset, err := openDataset(ctx, discard, location, features, dataset.New)
		require.NoError(t, err)
		c := &reporter.Collector{}
		stats, err := subgroups.NewSDMap(subgroups.WRAcc(), 0, tree.CombinedThreshold{MinN: 0}, c).Run(ctx, ds, features, feature.NewTarget("class", "y"))
		require.NoError(t, err, location)
		assert.Equal(t, 25, stats.VisitedNodes, location)
		assert.Len(t, c.Subgroups, 13, location)
		require.NoError(t, closeDataset())
	}
}
