package raster

import (
	"fmt"
	"image"
	"math"
)

// PixelBuffer is a contiguous run of non-premultiplied RGBA samples,
// 4 bytes per pixel, row-major with no padding between rows.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// NewPixelBufferFrom wraps an existing slice of samples, rejecting any slice
// whose length does not match the dimensions.
func NewPixelBufferFrom(width, height int, pix []uint8) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer dimensions: %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(pix), width, height)
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}, nil
}

func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

func (b *PixelBuffer) Len() int {
	return b.Width * b.Height
}

// Offset returns the index of the red sample of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

func (b *PixelBuffer) SameSize(other *PixelBuffer) bool {
	return other != nil && b.Width == other.Width && b.Height == other.Height
}

// NRGBA returns an image view sharing the buffer's samples.
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clamp rounds v to the nearest integer (ties to even) and saturates it to
// the 0..255 range of a channel sample.
func Clamp(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// Wrap maps v onto [0, n) using true modulo arithmetic.
func Wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Luma uses the Rec. 601 coefficients.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
