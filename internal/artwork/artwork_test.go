package artwork

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFetchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solidImage(color.RGBA{R: 255, A: 255}, 8, 8)))
	require.NoError(t, f.Close())

	img, err := Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestFetchFromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		png.Encode(w, solidImage(color.RGBA{G: 200, A: 255}, 4, 4))
	}))
	defer server.Close()

	img, err := Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestFetchErrors(t *testing.T) {
	_, err := Fetch(context.Background(), "")
	assert.Error(t, err)

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err = Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestExtractPaletteFallsBack(t *testing.T) {
	assert.Equal(t, DefaultPalette(), ExtractPalette(nil))

	// a pure grayscale cover has no usable saturation
	gray := solidImage(color.RGBA{R: 128, G: 128, B: 128, A: 255}, 32, 32)
	assert.Equal(t, DefaultPalette(), ExtractPalette(gray))
}

func TestHalfBlockArt(t *testing.T) {
	img := solidImage(color.RGBA{B: 255, A: 255}, 16, 16)

	lines := HalfBlockArt(img, 8, 4)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Contains(t, line, "▀")
	}

	assert.Nil(t, HalfBlockArt(nil, 8, 4))
	assert.Nil(t, HalfBlockArt(img, 2, 1))
}

func TestScoreColorPrefersSaturatedMidBrightness(t *testing.T) {
	vivid := scoreColor(80, 220, 110)
	murky := scoreColor(40, 45, 42)

	assert.Greater(t, vivid.score, murky.score)
	assert.Greater(t, vivid.sat, 0.2)
}
