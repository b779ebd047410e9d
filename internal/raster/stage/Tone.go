package stage

import (
	"github.com/rm-hull/glitch-lab/internal/raster"
)

type ToneStage struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	// Tint is the blend strength towards the target colour, 0..1.
	Tint  float64
	Red   float64
	Green float64
	Blue  float64
}

func (s *ToneStage) Name() string { return "tone" }

func (s *ToneStage) Enabled() bool {
	return s.Brightness != 1 || s.Contrast != 1 || s.Saturation != 1 || s.Tint != 0
}

// Process applies brightness, contrast, saturation and tint, in that order,
// clamping only once at the end of the chain.
func (s *ToneStage) Process(f *raster.Frame) error {
	pix := f.Buf.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i]) * s.Brightness
		g := float64(pix[i+1]) * s.Brightness
		b := float64(pix[i+2]) * s.Brightness

		r = (r-128)*s.Contrast + 128
		g = (g-128)*s.Contrast + 128
		b = (b-128)*s.Contrast + 128

		if s.Saturation != 1 {
			gray := raster.Luma(r, g, b)
			r = gray + (r-gray)*s.Saturation
			g = gray + (g-gray)*s.Saturation
			b = gray + (b-gray)*s.Saturation
		}

		if s.Tint != 0 {
			r = r*(1-s.Tint) + s.Red*s.Tint
			g = g*(1-s.Tint) + s.Green*s.Tint
			b = b*(1-s.Tint) + s.Blue*s.Tint
		}

		pix[i] = raster.Clamp(r)
		pix[i+1] = raster.Clamp(g)
		pix[i+2] = raster.Clamp(b)
	}
	return nil
}
