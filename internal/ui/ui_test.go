package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lrcvis/internal/artwork"
	"karolbroda.com/lrcvis/internal/track"
)

func sized(m Model, w, h int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func apply(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModelStartsWaiting(t *testing.T) {
	m := sized(NewModel(nil, "standard", false), 60, 20)

	view := m.View()
	assert.Contains(t, view, "awaiting music")
}

func TestModelShowsLineAfterTrack(t *testing.T) {
	m := sized(NewModel(nil, "standard", true), 200, 30)
	m = apply(m, TrackMsg{ID: track.Identity{Artist: "Band", Title: "Song"}})
	m = apply(m, LineMsg{Text: "hello"})

	view := m.View()
	assert.NotContains(t, view, "awaiting music")
	assert.NotEmpty(t, strings.TrimSpace(view))
}

func TestModelHeaderShowsTrack(t *testing.T) {
	m := sized(NewModel(nil, "standard", false), 80, 30)
	m = apply(m, TrackMsg{ID: track.Identity{Artist: "Band", Title: "Song"}})
	m = apply(m, LineMsg{Text: "hi"})

	view := m.View()
	assert.Contains(t, view, "Song")
	assert.Contains(t, view, "Band")

	// tab hides the header again
	m = apply(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.NotContains(t, m.View(), "Band")
}

func TestModelWaitingMsgResetsLine(t *testing.T) {
	m := sized(NewModel(nil, "standard", true), 60, 20)
	m = apply(m, TrackMsg{ID: track.Identity{Artist: "a", Title: "b"}})
	m = apply(m, LineMsg{Text: "line"})
	m = apply(m, WaitingMsg{})

	assert.Contains(t, m.View(), "awaiting music")
}

func TestModelQuitKeysCancelEngine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(cancel, "standard", false)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, updated.(Model).quitting)

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected engine context to be canceled")
	}
}

func TestModelIgnoresStalePalette(t *testing.T) {
	m := sized(NewModel(nil, "standard", false), 80, 30)
	current := track.Identity{Artist: "Band", Title: "Song"}
	m = apply(m, TrackMsg{ID: current})

	stale := &artwork.Palette{Primary: "#111111"}
	m = apply(m, PaletteMsg{
		For:     track.Identity{Artist: "Old", Title: "Gone"},
		Palette: stale,
	})
	assert.NotEqual(t, stale, m.palette)

	fresh := &artwork.Palette{Primary: "#222222"}
	m = apply(m, PaletteMsg{For: current, Palette: fresh})
	assert.Equal(t, fresh, m.palette)
}
