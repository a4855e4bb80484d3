package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lrcvis/internal/track"
)

func TestFrameFillsGrid(t *testing.T) {
	out := Frame("hi", 60, 10, "standard", lipgloss.NewStyle())

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestFrameFallsBackWhenTooWide(t *testing.T) {
	text := "a fairly long lyric line that cannot fit as figlet art"

	out := Frame(text, 30, 5, "standard", lipgloss.NewStyle())
	assert.Contains(t, out, text[:30])

	// wide screens get the big art instead
	big := Frame("hi", 200, 10, "standard", lipgloss.NewStyle())
	assert.NotContains(t, big, "\nhi\n")
}

func TestFrameEmptyText(t *testing.T) {
	out := Frame("", 40, 6, "standard", lipgloss.NewStyle())
	assert.Len(t, strings.Split(out, "\n"), 6)
}

func newTestDirect(buf *bytes.Buffer) *Direct {
	d := NewDirect(buf, "standard")
	d.size = func() (int, int) { return 60, 12 }
	return d
}

func TestDirectSkipsRedundantRedraws(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDirect(&buf)

	d.Line("hello")
	painted := buf.Len()
	require.Positive(t, painted)

	d.Line("hello")
	assert.Equal(t, painted, buf.Len())

	d.Line("world")
	assert.Greater(t, buf.Len(), painted)
}

func TestDirectTrackHeaderForcesRepaint(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDirect(&buf)

	d.Track(track.Identity{Artist: "Band", Title: "Song"})
	d.Line("hello")

	assert.Contains(t, buf.String(), "Band - Song")

	// same line after a track change still repaints with the new header
	buf.Reset()
	d.Track(track.Identity{Artist: "Other", Title: "Tune"})
	d.Line("hello")
	assert.Contains(t, buf.String(), "Other - Tune")
}

func TestDirectWaiting(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDirect(&buf)

	d.Waiting()
	assert.Contains(t, buf.String(), "...")

	before := buf.Len()
	d.Waiting()
	assert.Equal(t, before, buf.Len())
}
