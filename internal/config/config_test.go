package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/internal/config"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synthio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTemp(t, "sample_rate: 48000\nnode_capacity: 32\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, float32(48000), cfg.SampleRate)
	require.Equal(t, 32, cfg.NodeCapacity)
}

func TestLoadRejectsUnsupportedSampleRate(t *testing.T) {
	path := writeTemp(t, "sample_rate: 22050\nnode_capacity: 32\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsTooSmallNodeCapacity(t *testing.T) {
	path := writeTemp(t, "sample_rate: 44100\nnode_capacity: 4\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnwritableRecordPathDirectory(t *testing.T) {
	path := writeTemp(t, "sample_rate: 44100\nnode_capacity: 32\nrecord_path: /nonexistent-dir-xyz/out.wav\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}
