package wamedia

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestJPEGThumbnail_Downscales(t *testing.T) {
	thumb, err := JPEGThumbnail(encodePNG(t, 256, 128))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, thumbnailMaxSize, cfg.Width)
	assert.LessOrEqual(t, cfg.Height, thumbnailMaxSize)
	assert.GreaterOrEqual(t, cfg.Height, thumbnailMinSize)
}

func TestJPEGThumbnail_SmallImageKeptAsIs(t *testing.T) {
	thumb, err := JPEGThumbnail(encodePNG(t, 40, 30))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestJPEGThumbnail_InvalidInput(t *testing.T) {
	_, err := JPEGThumbnail([]byte("not an image"))
	require.ErrorContains(t, err, "failed to decode thumbnail")
}

func TestImageDimensions(t *testing.T) {
	width, height, err := imageDimensions(encodePNG(t, 17, 23))
	require.NoError(t, err)
	assert.Equal(t, uint32(17), width)
	assert.Equal(t, uint32(23), height)
}
