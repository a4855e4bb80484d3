// Package ui is the bubbletea front end of the viewer. The engine
// drives it through the Renderer adapter; the model itself only holds
// display state and never touches the player.
package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/lrcvis/internal/artwork"
	"karolbroda.com/lrcvis/internal/render"
	"karolbroda.com/lrcvis/internal/track"
)

type LineMsg struct {
	Text string
}

type WaitingMsg struct{}

type TrackMsg struct {
	ID track.Identity
}

type PaletteMsg struct {
	For     track.Identity
	Palette *artwork.Palette
	Art     []string
}

type Model struct {
	cancel     context.CancelFunc
	font       string
	hideHeader bool

	width    int
	height   int
	track    track.Identity
	line     string
	waiting  bool
	palette  *artwork.Palette
	art      []string
	quitting bool
}

func NewModel(cancel context.CancelFunc, font string, hideHeader bool) Model {
	return Model{
		cancel:     cancel,
		font:       font,
		hideHeader: hideHeader,
		waiting:    true,
		palette:    artwork.DefaultPalette(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case LineMsg:
		m.line = msg.Text
		m.waiting = false
		return m, nil

	case WaitingMsg:
		m.line = ""
		m.waiting = true
		return m, nil

	case TrackMsg:
		m.track = msg.ID
		m.line = ""
		m.palette = artwork.DefaultPalette()
		m.art = nil
		return m, nil

	case PaletteMsg:
		// a slow artwork fetch may land after the next track change
		if msg.For.Same(m.track) && msg.Palette != nil {
			m.palette = msg.Palette
			m.art = msg.Art
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	if m.waiting || !m.track.Valid() {
		return m.viewWaiting(width, height)
	}

	var header []string
	if !m.hideHeader {
		header = m.viewHeader(width)
	}

	bodyHeight := height - len(header)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	lineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.palette.Primary)).
		Bold(true)

	body := render.Frame(m.line, width, bodyHeight, m.font, lineStyle)

	out := append(header, body)
	return strings.Join(out, "\n")
}

func (m Model) viewWaiting(width, height int) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.palette.Dim)).
		Italic(true)

	return lipgloss.Place(width, height,
		lipgloss.Center, lipgloss.Center,
		style.Render("awaiting music"))
}

func (m Model) viewHeader(width int) []string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.palette.Secondary)).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.palette.Dim))

	title := m.track.Title
	artist := m.track.Artist

	maxWidth := width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}
	if len(title) > maxWidth {
		title = title[:maxWidth-1] + "…"
	}
	if len(artist) > maxWidth {
		artist = artist[:maxWidth-1] + "…"
	}

	info := []string{
		titleStyle.Render(title),
		dimStyle.Render(artist),
	}

	lines := []string{""}

	if len(m.art) > 0 && width >= 50 {
		// art and track info side by side
		for i := 0; i < len(m.art) || i < len(info); i++ {
			var row strings.Builder
			row.WriteString("  ")
			if i < len(m.art) {
				row.WriteString(m.art[i])
			} else {
				row.WriteString(strings.Repeat(" ", artWidth(m.art)))
			}
			row.WriteString("  ")
			if i < len(info) {
				row.WriteString(info[i])
			}
			lines = append(lines, row.String())
		}
	} else {
		for _, line := range info {
			lines = append(lines, "  "+line)
		}
	}

	lines = append(lines, "")
	return lines
}

func artWidth(art []string) int {
	if len(art) == 0 {
		return 0
	}
	return lipgloss.Width(art[0])
}

// ArtworkFunc resolves a palette and optional header art for a track.
type ArtworkFunc func(ctx context.Context, id track.Identity) (*artwork.Palette, []string)

// Renderer feeds engine display calls into a running bubbletea program.
type Renderer struct {
	p   *tea.Program
	art ArtworkFunc
}

func NewRenderer(p *tea.Program, art ArtworkFunc) *Renderer {
	return &Renderer{p: p, art: art}
}

func (r *Renderer) Line(text string) {
	r.p.Send(LineMsg{Text: text})
}

func (r *Renderer) Waiting() {
	r.p.Send(WaitingMsg{})
}

func (r *Renderer) Track(id track.Identity) {
	r.p.Send(TrackMsg{ID: id})

	if r.art == nil {
		return
	}
	go func() {
		palette, art := r.art(context.Background(), id)
		if palette != nil {
			r.p.Send(PaletteMsg{For: id, Palette: palette, Art: art})
		}
	}()
}
