package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
batch_size: 8
num_jobs: 10
num_machines: 5
rule: mor
gantt: true
generator:
  opes_per_job_min: 3
  opes_per_job_max: 6
  proc_time_max: 50
log:
  enabled: true
  dir: /tmp/fjs-logs
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.BatchSize)
	assert.Equal(t, 10, cfg.NumJobs)
	assert.Equal(t, 5, cfg.NumMachines)
	assert.Equal(t, "mor", cfg.Rule)
	assert.True(t, cfg.Gantt)
	assert.Equal(t, 3, cfg.Generator.OpesPerJobMin)
	assert.Equal(t, 50, cfg.Generator.ProcTimeMax)
	assert.True(t, cfg.Log.Enabled)
	assert.Equal(t, "/tmp/fjs-logs", cfg.Log.Dir)
	// untouched fields keep their defaults
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, ".", cfg.ReportDir)
}

func TestLoadCaseFilesSkipGeneratorChecks(t *testing.T) {
	path := writeConfig(t, `
rule: spt
batch_size: 0
case_files:
  - cases/mk01.fjs
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cases/mk01.fjs"}, cfg.CaseFiles)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero batch", "batch_size: 0\nrule: spt\n"},
		{"no rule", "rule: \"\"\n"},
		{"negative jobs", "num_jobs: -1\nrule: spt\n"},
		{"bad yaml", "rule: [unclosed\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.validate())
	assert.True(t, cfg.Parallel)
}
