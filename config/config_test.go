package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/krona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "krona.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, krona.DefaultMatchingOptions(), cfg.MatchingOptions())
	opts := cfg.ProcessorOptions()
	assert.True(t, opts.AutoAccept)
	assert.InDelta(t, 0.95, opts.AutoAcceptThreshold, 1e-9)
	assert.Equal(t, krona.AverageCost, opts.CostBasis)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
matching:
  min_confidence: 0.7
processing:
  auto_accept: false
  cost_basis: FIFO
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, cfg.Matching.MinConfidence, 1e-9)
	assert.InDelta(t, 0.05, cfg.Matching.ConflictEpsilon, 1e-9, "unset keys keep their default")
	assert.False(t, cfg.Processing.AutoAccept)
	assert.Equal(t, krona.FIFO, cfg.ProcessorOptions().CostBasis)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("KRONA_MATCHING_MIN_CONFIDENCE", "0.8")
	t.Setenv("KRONA_PROCESSING_AUTO_ACCEPT", "false")
	path := writeConfig(t, "matching:\n  min_confidence: 0.7\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.Matching.MinConfidence, 1e-9, "environment wins over the file")
	assert.False(t, cfg.Processing.AutoAccept)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"confidence above one", "matching:\n  min_confidence: 1.5\n"},
		{"negative epsilon", "matching:\n  conflict_epsilon: -0.1\n"},
		{"unknown cost basis", "processing:\n  cost_basis: lifo\n"},
		{"unknown level", "log:\n  level: chatty\n"},
		{"unknown key", "matching:\n  min_confidance: 0.5\n"},
		{"not yaml", "matching: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
