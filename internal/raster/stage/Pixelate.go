package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type PixelateStage struct {
	CellSize float64
}

func (s *PixelateStage) Name() string { return "pixelate" }

func (s *PixelateStage) Enabled() bool { return s.CellSize > 1 }

// Process replaces every CellSize x CellSize block with the per-channel mean
// of its pixels, alpha included. Blocks on the right and bottom edges are
// truncated to the buffer bounds.
func (s *PixelateStage) Process(f *raster.Frame) error {
	buf := f.Buf
	cell := int(math.Floor(s.CellSize))
	out := raster.NewPixelBuffer(buf.Width, buf.Height)

	for y := 0; y < buf.Height; y += cell {
		yEnd := min(y+cell, buf.Height)
		for x := 0; x < buf.Width; x += cell {
			xEnd := min(x+cell, buf.Width)

			var sum [4]float64
			for py := y; py < yEnd; py++ {
				for px := x; px < xEnd; px++ {
					idx := buf.Offset(px, py)
					for c := range sum {
						sum[c] += float64(buf.Pix[idx+c])
					}
				}
			}

			n := float64((yEnd - y) * (xEnd - x))
			var mean [4]uint8
			for c := range sum {
				mean[c] = raster.Clamp(sum[c] / n)
			}

			for py := y; py < yEnd; py++ {
				for px := x; px < xEnd; px++ {
					idx := out.Offset(px, py)
					copy(out.Pix[idx:idx+4], mean[:])
				}
			}
		}
	}

	f.Buf = out
	return nil
}
