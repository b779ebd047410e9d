package raster

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDecodeSource_PixelLimit(t *testing.T) {
	data := encodedPNG(t, 300, 200)

	tests := []struct {
		name      string
		maxPixels int64
		tooLarge  bool
	}{
		{"under limit", 60_001, false},
		{"exactly at limit", 60_000, false},
		{"over limit", 59_999, true},
		{"limit disabled", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := DecodeSource(data, tt.maxPixels)
			if tt.tooLarge {
				assert.ErrorIs(t, err, ErrTooLarge)
				assert.Nil(t, src)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 300, src.Width())
			assert.Equal(t, 200, src.Height())
		})
	}
}

func TestDecodeSource_RejectsBeforeDecodingBody(t *testing.T) {
	// a valid header followed by a truncated body fails only once decoded
	data := encodedPNG(t, 4000, 4000)
	truncated := data[:len(data)/2]

	_, err := DecodeSource(truncated, 1_000_000)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = DecodeSource(truncated, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooLarge)
}

func TestDecodeSource_Garbage(t *testing.T) {
	_, err := DecodeSource([]byte("definitely not an image"), 100)
	assert.ErrorContains(t, err, "failed to decode image")
}
