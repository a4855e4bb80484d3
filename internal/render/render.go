// Package render lays out lyric lines for the terminal. The big-text
// path draws figlet art through go-figure; when a line is too wide for
// the screen it degrades to the plain string.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"karolbroda.com/lrcvis/internal/track"
)

// Styles groups the lipgloss styles applied to each display element.
type Styles struct {
	Line   lipgloss.Style
	Header lipgloss.Style
	Dim    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Line:   lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).Faint(true),
	}
}

// Frame renders one lyric line centered in a width x height cell grid.
func Frame(text string, width, height int, font string, style lipgloss.Style) string {
	content := bigText(text, width, font)
	return lipgloss.Place(width, height,
		lipgloss.Center, lipgloss.Center,
		style.Render(content))
}

// bigText converts a line to figlet art, or returns the plain string
// when the art would overflow the screen.
func bigText(text string, width int, font string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	fig := figure.NewFigure(text, font, false)
	rows := fig.Slicify()
	if len(rows) == 0 {
		return text
	}

	for _, row := range rows {
		if lipgloss.Width(row) > width {
			return text
		}
	}

	return strings.Join(rows, "\n")
}

// Direct is the plain renderer used by --simple mode. It repaints the
// whole screen only when the displayed line actually changes, so the
// refresh cadence of the caller does not cause flicker.
type Direct struct {
	out    io.Writer
	font   string
	styles Styles
	size   func() (int, int)

	mu     sync.Mutex
	header string
	last   string
	drawn  bool
}

func NewDirect(out io.Writer, font string) *Direct {
	return &Direct{
		out:    out,
		font:   font,
		styles: DefaultStyles(),
		size:   termSize,
	}
}

func (d *Direct) Line(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.drawn && text == d.last {
		return
	}
	d.last = text
	d.drawn = true

	width, height := d.size()
	d.paint(Frame(text, width, height-2, d.font, d.styles.Line))
}

func (d *Direct) Waiting() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.drawn && d.last == "" {
		return
	}
	d.last = ""
	d.drawn = true

	width, height := d.size()
	d.paint(lipgloss.Place(width, height-2,
		lipgloss.Center, lipgloss.Center,
		d.styles.Dim.Render("...")))
}

func (d *Direct) Track(id track.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.header = id.String()
	d.drawn = false
}

// paint clears the screen and writes the header plus body.
func (d *Direct) paint(body string) {
	fmt.Fprint(d.out, "\x1b[2J\x1b[H")
	if d.header != "" {
		fmt.Fprintln(d.out, d.styles.Header.Render(" "+d.header))
		fmt.Fprintln(d.out)
	}
	fmt.Fprintln(d.out, body)
}

func termSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}
