package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"emperror.dev/errors"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtime/minecraft-bootstrap/core"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assertIcon(t *testing.T, data []byte) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, Size, cfg.Width)
	assert.Equal(t, Size, cfg.Height)
}

func TestConvertPNG(t *testing.T) {
	out, err := Convert(encodePNG(t, testImage(200, 120)))
	require.NoError(t, err)
	assertIcon(t, out)
}

func TestConvertJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(32, 48), nil))

	out, err := Convert(buf.Bytes())
	require.NoError(t, err)
	assertIcon(t, out)
}

func TestConvertRejectsNonImage(t *testing.T) {
	_, err := Convert([]byte("<html><body>404</body></html>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
}

func TestConvertRejectsTruncatedImage(t *testing.T) {
	data := encodePNG(t, testImage(64, 64))
	_, err := Convert(data[:40])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
}

func TestSquareCrop(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 150, 100), squareCrop(image.Rect(0, 0, 200, 100)))
	assert.Equal(t, image.Rect(0, 25, 50, 75), squareCrop(image.Rect(0, 0, 50, 100)))
	assert.Equal(t, image.Rect(0, 0, 64, 64), squareCrop(image.Rect(0, 0, 64, 64)))
}

func TestInstall(t *testing.T) {
	f := core.NewFetcher(core.DefaultSettings())
	mt := httpmock.NewMockTransport()
	f.Client.Transport = mt
	mt.RegisterResponder("GET", "https://cdn.example.com/logo.png", httpmock.NewBytesResponder(200, encodePNG(t, testImage(512, 512))))

	dir := t.TempDir()
	p, err := Install(context.Background(), f, "https://cdn.example.com/logo.png", dir)
	require.NoError(t, err)
	assert.Equal(t, core.IconPath(dir), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assertIcon(t, data)
}
