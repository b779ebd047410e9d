package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type RGBShiftStage struct {
	Amount float64
}

func (s *RGBShiftStage) Name() string { return "rgb-shift" }

func (s *RGBShiftStage) Enabled() bool { return s.Amount > 0 }

func (s *RGBShiftStage) shift(scale float64) int {
	return int(math.Floor(s.Amount * scale))
}

// Process samples green from x+shift (wrapping horizontally) and blue from
// y-shift (wrapping vertically). Red and alpha are left alone.
func (s *RGBShiftStage) Process(f *raster.Frame) error {
	shift := s.shift(f.Scale)
	if shift <= 0 {
		return nil
	}

	buf := f.Buf
	out := buf.Clone()
	for y := 0; y < buf.Height; y++ {
		by := raster.Wrap(y-shift, buf.Height)
		for x := 0; x < buf.Width; x++ {
			gx := raster.Wrap(x+shift, buf.Width)
			di := out.Offset(x, y)
			out.Pix[di+1] = buf.Pix[buf.Offset(gx, y)+1]
			out.Pix[di+2] = buf.Pix[buf.Offset(x, by)+2]
		}
	}

	f.Buf = out
	return nil
}
