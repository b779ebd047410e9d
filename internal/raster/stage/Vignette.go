package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type VignetteStage struct {
	Strength float64
}

func (s *VignetteStage) Name() string { return "vignette" }

func (s *VignetteStage) Enabled() bool { return s.Strength > 0 }

// Process darkens pixels in proportion to their distance from the centre.
// Distances are normalized so that the corners sit at sqrt(2).
func (s *VignetteStage) Process(f *raster.Frame) error {
	buf := f.Buf
	v := s.Strength / 100
	cx := float64(buf.Width-1) / 2
	cy := float64(buf.Height-1) / 2

	for y := 0; y < buf.Height; y++ {
		ny := normalize(float64(y), cy)
		for x := 0; x < buf.Width; x++ {
			nx := normalize(float64(x), cx)
			vf := math.Max(0, 1-math.Sqrt(nx*nx+ny*ny)*v)

			idx := buf.Offset(x, y)
			for c := range 3 {
				buf.Pix[idx+c] = raster.Clamp(float64(buf.Pix[idx+c]) * vf)
			}
		}
	}
	return nil
}

func normalize(v, centre float64) float64 {
	if centre == 0 {
		return 0
	}
	return (v - centre) / centre
}
