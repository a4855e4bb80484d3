// Package splitter breaks long lyric phrases into shorter timed chunks
// so the viewer changes lines at a readable pace. Splits prefer natural
// boundaries: sentence punctuation first, then commas, then
// conjunctions.
package splitter

import (
	"strings"

	"karolbroda.com/lrcvis/internal/lrc"
)

type Config struct {
	MaxPhraseDuration float64
	MinPhraseDuration float64
	MaxWordsPerPhrase int
	SplitOnCommas     bool
}

func DefaultConfig() Config {
	return Config{
		MaxPhraseDuration: 2.5,
		MinPhraseDuration: 0.3,
		MaxWordsPerPhrase: 8,
		SplitOnCommas:     true,
	}
}

// Process rewrites a lyric set, splitting phrases that run too long or
// carry commas. totalDuration bounds the last line's span; lines
// shorter than the minimum duration are dropped as timing noise.
func Process(lines []lrc.Line, totalDuration float64, cfg Config) []lrc.Line {
	var result []lrc.Line

	for i, line := range lines {
		next := totalDuration
		if i+1 < len(lines) {
			next = lines[i+1].Time
		}

		duration := next - line.Time
		if duration < cfg.MinPhraseDuration {
			continue
		}

		words := strings.Fields(line.Text)
		hasCommas := strings.Contains(line.Text, ",")
		needsSplit := hasCommas ||
			(duration > cfg.MaxPhraseDuration && len(words) > cfg.MaxWordsPerPhrase)

		if needsSplit {
			result = append(result, splitPhrase(line.Text, duration, line.Time, cfg)...)
		} else {
			result = append(result, line)
		}
	}

	return result
}

func splitPhrase(text string, duration, start float64, cfg Config) []lrc.Line {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	// split indices after every word carrying a comma
	var commaSplits []int
	for i, word := range words {
		if strings.Contains(word, ",") {
			commaSplits = append(commaSplits, i+1)
		}
	}

	if len(commaSplits) > 0 && cfg.SplitOnCommas {
		return splitAt(words, append(commaSplits, len(words)), duration, start)
	}

	if duration <= cfg.MaxPhraseDuration && len(words) <= cfg.MaxWordsPerPhrase {
		return []lrc.Line{{Time: start, Text: text}}
	}

	numChunks := int(duration/cfg.MaxPhraseDuration) + 1
	if numChunks < 2 {
		numChunks = 2
	}
	chunkSize := float64(len(words)) / float64(numChunks)

	var result []lrc.Line
	current := start
	wordIdx := 0

	for chunk := 0; chunk < numChunks; chunk++ {
		var chunkWords []string
		if chunk == numChunks-1 {
			chunkWords = words[wordIdx:]
		} else {
			target := wordIdx + int(chunkSize)
			split := findSplitPoint(words, target)
			if split <= wordIdx || split > len(words) {
				split = min(target, len(words))
			}
			chunkWords = words[wordIdx:split]
			wordIdx = split
		}

		if len(chunkWords) == 0 {
			continue
		}

		result = append(result, lrc.Line{
			Time: current,
			Text: strings.Join(chunkWords, " "),
		})
		current += float64(len(chunkWords)) / float64(len(words)) * duration
	}

	return result
}

// splitAt chunks words at the given sorted indices, apportioning the
// duration by word count. Commas are stripped from the output.
func splitAt(words []string, splits []int, duration, start float64) []lrc.Line {
	var result []lrc.Line
	wordIdx := 0
	current := start

	for _, split := range splits {
		if split <= wordIdx {
			continue
		}
		if split > len(words) {
			split = len(words)
		}

		chunkWords := words[wordIdx:split]
		text := strings.TrimSpace(strings.ReplaceAll(strings.Join(chunkWords, " "), ",", ""))
		if text != "" {
			result = append(result, lrc.Line{Time: current, Text: text})
		}

		current += float64(len(chunkWords)) / float64(len(words)) * duration
		wordIdx = split
	}

	return result
}

var splitPriority = [][]string{
	{".", "!", "?"},
	{",", ";", "—", "-"},
	{"and", "but", "or", "so", "then", "when", "while", "if"},
}

// findSplitPoint looks for a natural break near the preferred index,
// widening the search outward through weaker boundary classes.
func findSplitPoint(words []string, prefer int) int {
	radius := len(words) / 3
	if radius > 3 {
		radius = 3
	}

	for _, class := range splitPriority {
		for offset := 0; offset <= radius; offset++ {
			for _, idx := range []int{prefer, prefer + offset, prefer - offset} {
				if idx <= 0 || idx >= len(words) {
					continue
				}

				prev := strings.TrimRight(words[idx-1], " ")
				for _, mark := range class {
					if !isWordMark(mark) && strings.HasSuffix(prev, mark) {
						return idx
					}
				}

				if isConnector(words[idx], class) {
					return idx
				}
			}
		}
	}

	return prefer
}

func isWordMark(mark string) bool {
	for _, r := range mark {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}

func isConnector(word string, class []string) bool {
	lower := strings.ToLower(word)
	for _, mark := range class {
		if isWordMark(mark) && lower == mark {
			return true
		}
	}
	return false
}
