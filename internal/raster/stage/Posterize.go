package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type PosterizeStage struct {
	Levels float64
}

func (s *PosterizeStage) Name() string { return "posterize" }

func (s *PosterizeStage) Enabled() bool { return s.Levels < 256 }

// Process quantizes the colour samples down to Levels steps each.
func (s *PosterizeStage) Process(f *raster.Frame) error {
	levels := max(2, math.Floor(s.Levels))
	factor := 256 / levels

	pix := f.Buf.Pix
	for i := 0; i < len(pix); i += 4 {
		for c := range 3 {
			pix[i+c] = raster.Clamp(math.Floor(float64(pix[i+c])/factor) * factor)
		}
	}
	return nil
}
