package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// FitRect returns the largest rectangle with the buffer's aspect ratio that
// fits inside the surface, centred.
func FitRect(surface image.Rectangle, width, height int) image.Rectangle {
	if width <= 0 || height <= 0 || surface.Empty() {
		return image.Rectangle{}
	}

	ds := math.Min(
		float64(surface.Dx())/float64(width),
		float64(surface.Dy())/float64(height),
	)
	dw := float64(width) * ds
	dh := float64(height) * ds
	x0 := float64(surface.Min.X) + (float64(surface.Dx())-dw)/2
	y0 := float64(surface.Min.Y) + (float64(surface.Dy())-dh)/2

	return image.Rect(
		int(math.Round(x0)),
		int(math.Round(y0)),
		int(math.Round(x0+dw)),
		int(math.Round(y0+dh)),
	)
}

// Composite clears the display surface and draws the processed buffer onto
// it, scaled uniformly and centred.
func Composite(surface *image.NRGBA, buf *PixelBuffer) {
	clear(surface.Pix)
	if buf == nil {
		return
	}

	target := FitRect(surface.Rect, buf.Width, buf.Height)
	if target.Empty() {
		return
	}

	src := buf.NRGBA()
	if target.Dx() == buf.Width && target.Dy() == buf.Height {
		draw.Copy(surface, target.Min, src, src.Rect, draw.Src, nil)
		return
	}
	draw.ApproxBiLinear.Scale(surface, target, src, src.Rect, draw.Src, nil)
}
