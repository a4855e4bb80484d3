// Package resolve locates the lyric file that belongs to the playing
// track. It checks the audio file's own directory first, then falls back
// to name matching inside the configured lyrics directory.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"karolbroda.com/lrcvis/internal/lrc"
	"karolbroda.com/lrcvis/internal/track"
)

var ErrNotFound = errors.New("no matching lrc file")

type Library struct {
	dir string
	ext string
}

// NewLibrary resolves against dir. When wordLevel is set, .wlrc files
// are matched instead of .lrc.
func NewLibrary(dir string, wordLevel bool) *Library {
	ext := ".lrc"
	if wordLevel {
		ext = ".wlrc"
	}

	return &Library{dir: dir, ext: ext}
}

// Resolve finds and parses the lyric set for the given identity.
// pathHint, when non-empty, is the local path of the playing audio file
// and takes priority over name matching.
func (l *Library) Resolve(_ context.Context, id track.Identity, pathHint string) ([]lrc.Line, error) {
	path, err := l.find(id, pathHint)
	if err != nil {
		return nil, err
	}

	lines, err := lrc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no timed lines in %s", path)
	}

	return lines, nil
}

func (l *Library) find(id track.Identity, pathHint string) (string, error) {
	if pathHint != "" {
		// lyric file next to the audio file
		sibling := strings.TrimSuffix(pathHint, filepath.Ext(pathHint)) + l.ext
		if fileExists(sibling) {
			return sibling, nil
		}

		// same stem inside the lyrics dir
		inDir := filepath.Join(l.dir, stem(pathHint)+l.ext)
		if fileExists(inDir) {
			return inDir, nil
		}
	}

	candidates, err := l.list()
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNotFound
	}

	// "artist title" collapsed to alphanumerics
	target := normalize(id.Artist + id.Title)
	for _, candidate := range candidates {
		if normalize(stem(candidate)) == target {
			return candidate, nil
		}
	}

	if pathHint != "" {
		hinted := normalize(stem(pathHint))
		for _, candidate := range candidates {
			if normalize(stem(candidate)) == hinted {
				return candidate, nil
			}
		}
	}

	// fuzzy ranking as a last resort; only trust a clearly positive match
	stems := make([]string, len(candidates))
	for i, candidate := range candidates {
		stems[i] = stem(candidate)
	}

	matches := fuzzy.Find(id.String(), stems)
	if len(matches) > 0 && matches[0].Score > 0 {
		return candidates[matches[0].Index], nil
	}

	return "", ErrNotFound
}

func (l *Library) list() ([]string, error) {
	if l.dir == "" {
		return nil, ErrNotFound
	}

	var files []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), l.ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan lyrics dir: %w", err)
	}

	return files, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
