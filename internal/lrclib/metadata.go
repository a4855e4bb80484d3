package lrclib

import (
	"path/filepath"
	"strings"
)

// FileMetadata is artist/title information recovered from an audio
// filename in "Artist - Title" form. FullArtist and OriginalTitle keep
// the uncleaned values for fallback searches; they are empty when they
// match the cleaned ones.
type FileMetadata struct {
	Artist        string
	Title         string
	FullArtist    string
	OriginalTitle string
}

// noise commonly appended to downloaded track titles
var versionSuffixes = []string{
	" - Nightcore", " - Slowed", " - slowed", " - Sped Up", " - SPED UP",
	" - sped up", " - spedup", " - Instrumental", " - Radio Edit",
	" - Extended", " - extended", " - Single Version", " - Album Version",
	" - Remaster", " - Remastered", " - Official Audio", " - Official Video",
	" - Lyrics", " - Audio", " - Video", " - Visualizer", " - Music Video",
}

var featMarkers = []string{" (feat.", " (ft.", " (feat ", " (ft ", " (with ", " (w "}

var bonusMarkers = []string{" (Bonus)", " (Bonus Track)", " (BONUS TRACK)"}

var qualityTags = []string{"[FLAC]", "[MP3]", "[320]", "[256]", "[128]"}

// ExtractFileMetadata parses artist and title out of an audio filename.
// Without an "Artist - Title" separator the whole stem becomes the
// title.
func ExtractFileMetadata(path string) FileMetadata {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	for _, tag := range qualityTags {
		stem = strings.ReplaceAll(stem, tag, "")
	}
	stem = strings.TrimSpace(stem)

	fullArtist, fullTitle, found := strings.Cut(stem, " - ")
	if !found {
		return FileMetadata{Title: stem}
	}

	fullArtist = strings.TrimSpace(fullArtist)
	fullTitle = strings.TrimSpace(fullTitle)

	// only the first credited artist
	artist := fullArtist
	if first, _, ok := strings.Cut(fullArtist, ", "); ok {
		artist = strings.TrimSpace(first)
	}

	title := cleanTitle(fullTitle)

	md := FileMetadata{Artist: artist, Title: title}
	if fullArtist != artist {
		md.FullArtist = fullArtist
	}
	if fullTitle != title {
		md.OriginalTitle = fullTitle
	}
	return md
}

func cleanTitle(raw string) string {
	title := raw

	for _, suffix := range versionSuffixes {
		if idx := strings.Index(title, suffix); idx >= 0 {
			title = title[:idx]
		}
	}

	for _, marker := range featMarkers {
		if idx := strings.Index(title, marker); idx >= 0 {
			title = title[:idx]
		}
	}

	if strings.HasSuffix(title, " (Remix)") {
		title = strings.TrimSuffix(title, " (Remix)")
	} else if idx := strings.Index(title, " - Remix"); idx >= 0 {
		title = title[:idx]
	}

	for _, marker := range bonusMarkers {
		if idx := strings.Index(title, marker); idx >= 0 {
			title = title[:idx]
		}
	}

	if idx := strings.Index(title, " #"); idx >= 0 {
		title = title[:idx]
	}

	return strings.TrimSpace(title)
}
