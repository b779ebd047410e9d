package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type ChromaticAberrationStage struct {
	Amount float64
}

func (s *ChromaticAberrationStage) Name() string { return "chromatic-aberration" }

func (s *ChromaticAberrationStage) Enabled() bool { return s.Amount > 0 }

// Process pulls red from x+shift and blue from x-shift. Unlike the RGB shift
// there is no wrapping: a sample that would fall outside the row keeps its
// original value.
func (s *ChromaticAberrationStage) Process(f *raster.Frame) error {
	shift := int(math.Floor(s.Amount * f.Scale))
	if shift <= 0 {
		return nil
	}

	buf := f.Buf
	out := buf.Clone()
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			di := out.Offset(x, y)
			if x+shift < buf.Width {
				out.Pix[di] = buf.Pix[buf.Offset(x+shift, y)]
			}
			if x-shift >= 0 {
				out.Pix[di+2] = buf.Pix[buf.Offset(x-shift, y)+2]
			}
		}
	}

	f.Buf = out
	return nil
}
