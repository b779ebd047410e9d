package editor

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSource(t *testing.T, w, h int) *raster.SourceImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x + y), A: 255})
		}
	}
	src, err := raster.NewSourceImage(img)
	require.NoError(t, err)
	return src
}
