package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitRect(t *testing.T) {
	tests := []struct {
		name    string
		surface image.Rectangle
		w, h    int
		want    image.Rectangle
	}{
		{"letterbox", image.Rect(0, 0, 200, 200), 100, 50, image.Rect(0, 50, 200, 150)},
		{"pillarbox", image.Rect(0, 0, 300, 100), 100, 100, image.Rect(100, 0, 200, 100)},
		{"exact", image.Rect(0, 0, 40, 30), 40, 30, image.Rect(0, 0, 40, 30)},
		{"downscale", image.Rect(0, 0, 50, 50), 100, 200, image.Rect(13, 0, 38, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitRect(tt.surface, tt.w, tt.h))
		})
	}
}

func TestComposite(t *testing.T) {
	buf := NewPixelBuffer(2, 1)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 200, 200, 200, 255
	}

	surface := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range surface.Pix {
		surface.Pix[i] = 17
	}

	Composite(surface, buf)

	// rows 0 and 3 are cleared, rows 1 and 2 hold the upscaled buffer
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(0), surface.NRGBAAt(x, 0).A)
		assert.Equal(t, uint8(200), surface.NRGBAAt(x, 1).R)
		assert.Equal(t, uint8(200), surface.NRGBAAt(x, 2).R)
		assert.Equal(t, uint8(0), surface.NRGBAAt(x, 3).A)
	}
}

func TestComposite_NilBufferClears(t *testing.T) {
	surface := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	surface.Pix[0] = 9
	Composite(surface, nil)
	assert.Equal(t, uint8(0), surface.Pix[0])
}
