package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type DisplaceStage struct {
	Amount    float64
	Frequency float64
}

func (s *DisplaceStage) Name() string { return "displace" }

func (s *DisplaceStage) Enabled() bool { return s.Amount > 0 }

// Process warps pixel coordinates along sine (horizontal) and cosine
// (vertical) waves. Source coordinates wrap around both edges, so the
// amplitude may exceed the buffer size.
func (s *DisplaceStage) Process(f *raster.Frame) error {
	buf := f.Buf
	out := raster.NewPixelBuffer(buf.Width, buf.Height)
	amp := s.Amount * f.Scale

	// dy only depends on x, so compute the column offsets once
	dys := make([]int, buf.Width)
	for x := range dys {
		dys[x] = int(math.Floor(amp * math.Cos(float64(x)*s.Frequency)))
	}

	for y := 0; y < buf.Height; y++ {
		dx := int(math.Floor(amp * math.Sin(float64(y)*s.Frequency)))
		for x := 0; x < buf.Width; x++ {
			sx := raster.Wrap(x+dx, buf.Width)
			sy := raster.Wrap(y+dys[x], buf.Height)
			si := buf.Offset(sx, sy)
			di := out.Offset(x, y)
			copy(out.Pix[di:di+4], buf.Pix[si:si+4])
		}
	}

	f.Buf = out
	return nil
}
