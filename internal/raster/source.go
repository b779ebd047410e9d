package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	// additional decoders for uploads that are not PNG/JPEG/GIF
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage = errors.New("image has no pixels")
	ErrTooLarge   = errors.New("image exceeds pixel limit")
)

// SourceImage is the full-resolution upload. It is never mutated once built.
type SourceImage struct {
	buf *PixelBuffer
}

// NewSourceImage converts any decoded image into a non-premultiplied RGBA
// buffer anchored at the origin.
func NewSourceImage(img image.Image) (*SourceImage, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		// copy rows directly, going through draw would round low-alpha samples
		rowLen := buf.Width * 4
		for y := 0; y < buf.Height; y++ {
			start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.Pix[y*rowLen:(y+1)*rowLen], nrgba.Pix[start:start+rowLen])
		}
		return &SourceImage{buf: buf}, nil
	}

	dst := buf.NRGBA()
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return &SourceImage{buf: buf}, nil
}

func NewSourceImageFromReader(r io.Reader) (*SourceImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return NewSourceImage(img)
}

// DecodeSource reads only the image header first and refuses anything with
// more than maxPixels pixels before decoding the body. A maxPixels of zero
// or less disables the check.
func DecodeSource(data []byte, maxPixels int64) (*SourceImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d is over %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return NewSourceImageFromReader(bytes.NewReader(data))
}

func (s *SourceImage) Width() int {
	return s.buf.Width
}

func (s *SourceImage) Height() int {
	return s.buf.Height
}

// Image exposes a read-only view over the source pixels. Callers must not
// draw into it.
func (s *SourceImage) Image() image.Image {
	return s.buf.NRGBA()
}
