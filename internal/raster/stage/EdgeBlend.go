package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type EdgeBlendStage struct {
	Percentage float64
}

func (s *EdgeBlendStage) Name() string { return "edge-blend" }

func (s *EdgeBlendStage) Enabled() bool { return s.Percentage > 0 }

// Process computes a 3x3 gradient magnitude of the luma for every interior
// pixel and mixes Percentage% of it into the red, green and blue samples.
// The one pixel border is left unchanged.
func (s *EdgeBlendStage) Process(f *raster.Frame) error {
	buf := f.Buf
	if buf.Width < 3 || buf.Height < 3 {
		return nil
	}

	luma := make([]float64, buf.Len())
	for i := range luma {
		idx := i * 4
		luma[i] = raster.Luma(float64(buf.Pix[idx]), float64(buf.Pix[idx+1]), float64(buf.Pix[idx+2]))
	}

	edges := make([]uint8, buf.Len())
	for y := 1; y < buf.Height-1; y++ {
		for x := 1; x < buf.Width-1; x++ {
			var gx, gy float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					l := luma[(y+dy)*buf.Width+x+dx]
					gx += l * float64(dx)
					gy += l * float64(dy)
				}
			}
			edges[y*buf.Width+x] = raster.Clamp(math.Sqrt(gx*gx + gy*gy))
		}
	}

	eb := s.Percentage / 100
	for y := 1; y < buf.Height-1; y++ {
		for x := 1; x < buf.Width-1; x++ {
			idx := buf.Offset(x, y)
			e := float64(edges[y*buf.Width+x]) * eb
			for c := range 3 {
				buf.Pix[idx+c] = raster.Clamp(float64(buf.Pix[idx+c])*(1-eb) + e)
			}
		}
	}
	return nil
}
