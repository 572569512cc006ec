package simulator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caseLines = []string{
	"2 2 2.0",
	"2  2 1 3 2 5  2 1 4 2 2",
	"2  2 1 2 2 6  2 1 5 2 3",
}

func TestParseLines(t *testing.T) {
	ins, err := ParseLines("case", caseLines)
	require.NoError(t, err)

	assert.Equal(t, "case", ins.Name())
	assert.Equal(t, 2, ins.NumJobs())
	assert.Equal(t, 2, ins.NumMachines())
	assert.Equal(t, 4, ins.NumOps())
	// machine indices in the file are 1-based
	assert.Equal(t, Duration(3), ins.ProcTime(0, 0))
	assert.Equal(t, Duration(5), ins.ProcTime(0, 1))
	assert.Equal(t, Duration(3), ins.ProcTime(3, 1))
}

func TestParseLinesSkipsBlankLines(t *testing.T) {
	lines := append([]string{"", "  "}, caseLines...)
	lines = append(lines, "")
	ins, err := ParseLines("blank", lines)
	require.NoError(t, err)
	assert.Equal(t, 4, ins.NumOps())
}

func TestDetectCounts(t *testing.T) {
	numJobs, numMachines, numOps, err := DetectCounts(caseLines)
	require.NoError(t, err)
	assert.Equal(t, 2, numJobs)
	assert.Equal(t, 2, numMachines)
	assert.Equal(t, 4, numOps)
}

func TestParseLinesRejectsMalformedCases(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"header too short", []string{"2"}},
		{"missing job lines", []string{"2 2", "1  1 1 3"}},
		{"truncated op", []string{"1 2", "1  2 1 3"}},
		{"zero eligible machines", []string{"1 2", "1  0"}},
		{"trailing tokens", []string{"1 2", "1  1 1 3 7"}},
		{"non-numeric token", []string{"1 2", "1  1 x 3"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseLines(c.name, c.lines)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInstance), err.Error())
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case_a.fjs")
	content := ""
	for _, line := range caseLines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	instances, err := LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "case_a", instances[0].Name())
	assert.Equal(t, 4, instances[0].NumOps())

	_, err = LoadFiles([]string{filepath.Join(dir, "missing.fjs")})
	require.Error(t, err)
}
