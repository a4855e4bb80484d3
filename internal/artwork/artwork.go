// Package artwork fetches cover images and derives a small terminal
// color palette from them.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

const fetchTimeout = 5 * time.Second

type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Dim       string
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#50FA7B",
		Secondary: "#BD93F9",
		Accent:    "#FF79C6",
		Dim:       "#6272A4",
	}
}

// Fetch loads cover art from a file:// or http(s) URL as players expose
// them over MPRIS metadata.
func Fetch(ctx context.Context, artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if strings.HasPrefix(artworkURL, "file://") {
		f, err := os.Open(strings.TrimPrefix(artworkURL, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artwork image: %w", err)
		}
		return img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}
	return img, nil
}

type scoredColor struct {
	r, g, b    uint32
	sat        float64
	brightness float64
	score      float64
}

// ExtractPalette clusters the dominant image colors and picks three
// that read well on a dark terminal. Muddy or blown-out clusters lose
// out to saturated mid-brightness ones.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	// kmeans on the full cover is slow, a thumbnail keeps the hues
	small := resize.Thumbnail(160, 160, img, resize.Lanczos3)

	clusters, err := prominentcolor.KmeansWithAll(5, small,
		prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(clusters) < 3 {
		return DefaultPalette()
	}

	scored := make([]scoredColor, 0, len(clusters))
	for _, c := range clusters {
		scored = append(scored, scoreColor(c.Color.R, c.Color.G, c.Color.B))
	}

	primary, ok := pickBest(scored, nil, 0.2, 0.3)
	if !ok {
		return DefaultPalette()
	}
	secondary, ok := pickBest(scored, []scoredColor{primary}, 0.15, 0.3)
	if !ok {
		secondary = primary
	}
	accent, ok := pickBest(scored, []scoredColor{primary, secondary}, 0.1, 0.25)
	if !ok {
		accent = secondary
	}

	return &Palette{
		Primary:   hexColor(brighten(primary)),
		Secondary: hexColor(brighten(secondary)),
		Accent:    hexColor(brighten(accent)),
		Dim:       "#6272A4",
	}
}

func scoreColor(r, g, b uint32) scoredColor {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	max := math.Max(math.Max(rf, gf), bf)
	min := math.Min(math.Min(rf, gf), bf)

	sat := 0.0
	if max > 0 {
		sat = (max - min) / max
	}

	return scoredColor{
		r: r, g: g, b: b,
		sat:        sat,
		brightness: max,
		score:      sat * (1.0 - math.Abs(max-0.6)),
	}
}

func pickBest(scored []scoredColor, taken []scoredColor, minSat, minBrightness float64) (scoredColor, bool) {
	best := scoredColor{score: -1}
	found := false

	for _, c := range scored {
		if sameColor(c, taken) {
			continue
		}
		if c.sat < minSat || c.brightness < minBrightness {
			continue
		}
		if c.score > best.score {
			best = c
			found = true
		}
	}

	return best, found
}

func sameColor(c scoredColor, taken []scoredColor) bool {
	for _, t := range taken {
		if c.r == t.r && c.g == t.g && c.b == t.b {
			return true
		}
	}
	return false
}

// brighten lifts colors too dark for text on a dark background.
func brighten(c scoredColor) scoredColor {
	if c.brightness >= 0.4 {
		return c
	}

	factor := 0.4 / c.brightness
	if factor > 2.5 {
		factor = 2.5
	}
	c.r = uint32(math.Min(255, float64(c.r)*factor))
	c.g = uint32(math.Min(255, float64(c.g)*factor))
	c.b = uint32(math.Min(255, float64(c.b)*factor))
	return c
}

func hexColor(c scoredColor) string {
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}

// HalfBlockArt paints the cover into terminal cells using the upper
// half block, two pixel rows per cell.
func HalfBlockArt(img image.Image, targetWidth, targetHeight int) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	resized := resize.Resize(uint(targetWidth), uint(targetHeight*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, targetHeight)
	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := y * 2
		bottomY := topY + 1

		for x := 0; x < bounds.Dx(); x++ {
			tr, tg, tb, ta := resized.At(bounds.Min.X+x, bounds.Min.Y+topY).RGBA()

			br, bg, bb, ba := tr, tg, tb, ta
			if bottomY < bounds.Dy() {
				br, bg, bb, ba = resized.At(bounds.Min.X+x, bounds.Min.Y+bottomY).RGBA()
			}

			if ta>>8 < 128 && ba>>8 < 128 {
				line.WriteString(" ")
				continue
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", tr>>8, tg>>8, tb>>8))).
				Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", br>>8, bg>>8, bb>>8)))
			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}
