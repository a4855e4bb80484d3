package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "org.mpris.MediaPlayer2.spotify", cfg.Player.Service)
	assert.Equal(t, 2.5, cfg.Processor.MaxPhraseDuration)
	assert.Equal(t, 8, cfg.Processor.MaxWordsPerPhrase)
	assert.True(t, cfg.Processor.SplitOnCommas)
	assert.False(t, cfg.Visualizer.Simple)
	assert.Equal(t, 0.05, cfg.Visualizer.RefreshRate)
	assert.Equal(t, 3, cfg.Puller.Retries)
	assert.Equal(t, 0.5, cfg.Puller.Backoff)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[player]
service = "org.mpris.MediaPlayer2.mpv"

[visualizer]
lyrics_dir = "/music/lyrics"
word_level = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "org.mpris.MediaPlayer2.mpv", cfg.Player.Service)
	assert.Equal(t, "/music/lyrics", cfg.Visualizer.LyricsDir)
	assert.True(t, cfg.Visualizer.WordLevel)

	// untouched sections keep embedded defaults
	assert.Equal(t, 0.3, cfg.Processor.MinPhraseDuration)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MPRIS_SERVICE", "org.mpris.MediaPlayer2.vlc")
	t.Setenv("LRC_DIR", "/tmp/lrc")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "org.mpris.MediaPlayer2.vlc", cfg.Player.Service)
	assert.Equal(t, "/tmp/lrc", cfg.Visualizer.LyricsDir)
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteExample(path))
	assert.Error(t, WriteExample(path))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.Visualizer.Font)
}
