package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lrcvis/internal/track"
)

func writeLrc(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[00:01.00]hello\n[00:02.00]world\n"), 0o644))
}

func TestResolveSiblingOfAudioFile(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "music", "Some Song.flac")
	writeLrc(t, filepath.Join(dir, "music", "Some Song.lrc"))

	lib := NewLibrary(filepath.Join(dir, "lyrics"), false)
	lines, err := lib.Resolve(context.Background(), track.Identity{Artist: "A", Title: "B"}, audio)

	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestResolveStemInLyricsDir(t *testing.T) {
	dir := t.TempDir()
	lrcDir := filepath.Join(dir, "lyrics")
	writeLrc(t, filepath.Join(lrcDir, "Some Song.lrc"))

	lib := NewLibrary(lrcDir, false)
	lines, err := lib.Resolve(context.Background(),
		track.Identity{Artist: "A", Title: "B"},
		filepath.Join(dir, "music", "Some Song.mp3"))

	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestResolveNormalizedArtistTitle(t *testing.T) {
	dir := t.TempDir()
	writeLrc(t, filepath.Join(dir, "The Band - Great Song!.lrc"))

	lib := NewLibrary(dir, false)
	lines, err := lib.Resolve(context.Background(),
		track.Identity{Artist: "the band", Title: "great song"}, "")

	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestResolveFuzzyFallback(t *testing.T) {
	dir := t.TempDir()
	writeLrc(t, filepath.Join(dir, "Band - Great Song (Remastered 2020).lrc"))
	writeLrc(t, filepath.Join(dir, "Totally Unrelated.lrc"))

	lib := NewLibrary(dir, false)
	lines, err := lib.Resolve(context.Background(),
		track.Identity{Artist: "Band", Title: "Great Song"}, "")

	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestResolveWordLevelExtension(t *testing.T) {
	dir := t.TempDir()
	writeLrc(t, filepath.Join(dir, "Band - Song.wlrc"))

	lib := NewLibrary(dir, true)
	_, err := lib.Resolve(context.Background(),
		track.Identity{Artist: "Band", Title: "Song"}, "")
	require.NoError(t, err)

	plain := NewLibrary(dir, false)
	_, err = plain.Resolve(context.Background(),
		track.Identity{Artist: "Band", Title: "Song"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveNotFound(t *testing.T) {
	lib := NewLibrary(t.TempDir(), false)
	_, err := lib.Resolve(context.Background(),
		track.Identity{Artist: "Nobody", Title: "Nothing"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
