package raster

import (
	"math"

	"golang.org/x/image/draw"
)

// DeviceClass selects the working resolution cap.
type DeviceClass int

const (
	DeviceStandard DeviceClass = iota
	DeviceCompact
)

const (
	StandardProcessCap = 1200
	CompactProcessCap  = 600
)

func (d DeviceClass) Cap() int {
	if d == DeviceCompact {
		return CompactProcessCap
	}
	return StandardProcessCap
}

func (d DeviceClass) String() string {
	if d == DeviceCompact {
		return "compact"
	}
	return "standard"
}

func ParseDeviceClass(s string) DeviceClass {
	if s == "compact" || s == "mobile" {
		return DeviceCompact
	}
	return DeviceStandard
}

// ProcessSize computes the working dimensions and the scale factor for a
// source of the given size under a width cap.
func ProcessSize(srcWidth, srcHeight, maxWidth int) (width, height int, scale float64) {
	width = min(srcWidth, maxWidth)
	if width < 1 {
		width = 1
	}
	height = int(math.Round(float64(srcHeight) * float64(width) / float64(srcWidth)))
	if height < 1 {
		height = 1
	}
	return width, height, float64(width) / float64(srcWidth)
}

// Downsample resamples the source into a fresh working buffer no wider than
// maxWidth. A nil source yields a nil buffer.
func Downsample(src *SourceImage, maxWidth int) (*PixelBuffer, float64) {
	if src == nil {
		return nil, 0
	}

	width, height, scale := ProcessSize(src.Width(), src.Height(), maxWidth)
	if width == src.Width() && height == src.Height() {
		return src.buf.Clone(), scale
	}

	out := NewPixelBuffer(width, height)
	dst := out.NRGBA()
	draw.ApproxBiLinear.Scale(dst, dst.Rect, src.buf.NRGBA(), src.buf.NRGBA().Rect, draw.Src, nil)
	return out, scale
}
