package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResultsToFile(t *testing.T) {
	base := t.TempDir()
	resultDir := filepath.Join(base, "out", "run")

	configPath := filepath.Join(base, "bench.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("name: test\n"), 0644))

	report := NewReport("test", "http://127.0.0.1:7545")
	report.Add(Measurement{Kind: KindTraceability, Parameter: 10, Value: 1.5, Unit: UnitMilliseconds})
	report.Features = map[string]bool{"traceable": true}

	path, err := WriteResultsToFile(report, resultDir, configPath, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_results.json"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Measurements, decoded.Measurements)
	assert.Equal(t, report.Features, decoded.Features)

	copied := strings.TrimSuffix(path, "_results.json") + "_bench.yaml"
	content, err = os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "name: test\n", string(content))
}

func TestWriteResultsMissingConfig(t *testing.T) {
	report := NewReport("test", "")

	_, err := WriteResultsToFile(report, t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
