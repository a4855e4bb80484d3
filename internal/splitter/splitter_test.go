package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lrcvis/internal/lrc"
)

func TestProcessKeepsShortPhrases(t *testing.T) {
	lines := []lrc.Line{
		{Time: 0, Text: "short line"},
		{Time: 2, Text: "another one"},
	}

	got := Process(lines, 4, DefaultConfig())
	assert.Equal(t, lines, got)
}

func TestProcessDropsTimingNoise(t *testing.T) {
	lines := []lrc.Line{
		{Time: 0, Text: "blip"},
		{Time: 0.1, Text: "real line"},
	}

	got := Process(lines, 10, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "real line", got[0].Text)
}

func TestProcessSplitsOnCommas(t *testing.T) {
	lines := []lrc.Line{
		{Time: 10, Text: "first part, second part, third part"},
	}

	got := Process(lines, 16, DefaultConfig())
	require.Len(t, got, 3)

	assert.Equal(t, "first part", got[0].Text)
	assert.Equal(t, "second part", got[1].Text)
	assert.Equal(t, "third part", got[2].Text)

	// timestamps stay ordered and start at the original time
	assert.Equal(t, 10.0, got[0].Time)
	assert.Less(t, got[0].Time, got[1].Time)
	assert.Less(t, got[1].Time, got[2].Time)

	for _, line := range got {
		assert.NotContains(t, line.Text, ",")
	}
}

func TestProcessCommaSplitDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SplitOnCommas = false

	lines := []lrc.Line{{Time: 0, Text: "one, two"}}
	got := Process(lines, 2, cfg)

	require.Len(t, got, 1)
	assert.Equal(t, "one, two", got[0].Text)
}

func TestProcessSplitsLongPhrases(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps on running far away"
	lines := []lrc.Line{{Time: 5, Text: text}}

	got := Process(lines, 15, DefaultConfig())
	require.GreaterOrEqual(t, len(got), 2)

	// no words lost, just redistributed
	var rejoined []string
	for _, line := range got {
		rejoined = append(rejoined, line.Text)
	}
	assert.Equal(t, text, strings.Join(rejoined, " "))

	assert.Equal(t, 5.0, got[0].Time)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Time, got[i-1].Time)
	}
	last := got[len(got)-1]
	assert.Less(t, last.Time, 15.0)
}

func TestProcessLastLineUsesTotalDuration(t *testing.T) {
	// a trailing line shorter than the minimum duration disappears
	lines := []lrc.Line{{Time: 99.9, Text: "bye"}}
	got := Process(lines, 100, DefaultConfig())
	assert.Empty(t, got)
}

func TestFindSplitPointPrefersPunctuation(t *testing.T) {
	words := strings.Fields("I went home. then I slept for a while")

	// "home." ends a sentence right before the preferred index
	assert.Equal(t, 3, findSplitPoint(words, 4))
}

func TestFindSplitPointFallsBackToConjunction(t *testing.T) {
	words := strings.Fields("running down the road and singing out loud")

	assert.Equal(t, 4, findSplitPoint(words, 4))
	assert.Equal(t, "and", words[4])
}
