package stage

import (
	"github.com/rm-hull/glitch-lab/internal/raster"
)

type NoiseStage struct {
	Amplitude float64
}

func (s *NoiseStage) Name() string { return "noise" }

func (s *NoiseStage) Enabled() bool { return s.Amplitude > 0 }

// Process adds one uniform draw from [-Amplitude, +Amplitude] to each of the
// red, green and blue samples of a pixel. Alpha is not touched.
func (s *NoiseStage) Process(f *raster.Frame) error {
	pix := f.Buf.Pix
	for i := 0; i < len(pix); i += 4 {
		nv := (f.Rand.Float64() - 0.5) * 2 * s.Amplitude
		pix[i] = raster.Clamp(float64(pix[i]) + nv)
		pix[i+1] = raster.Clamp(float64(pix[i+1]) + nv)
		pix[i+2] = raster.Clamp(float64(pix[i+2]) + nv)
	}
	return nil
}
