package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type RandomSwapStage struct {
	Percentage float64
}

func (s *RandomSwapStage) Name() string { return "random-swap" }

func (s *RandomSwapStage) Enabled() bool { return s.Percentage > 0 }

// Process shuffles the pixel indices, takes the first Percentage% of them and
// swaps those pixels pairwise. An odd trailing index is left untouched.
func (s *RandomSwapStage) Process(f *raster.Frame) error {
	buf := f.Buf
	total := buf.Len()
	k := int(math.Floor(float64(total) * s.Percentage / 100))
	if k < 2 {
		return nil
	}

	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	for i := total - 1; i > 0; i-- {
		j := f.Rand.IntN(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	for i := 0; i+1 < k; i += 2 {
		swapPixels(buf.Pix, indices[i]*4, indices[i+1]*4)
	}
	return nil
}

func swapPixels(pix []uint8, a, b int) {
	for c := range 4 {
		pix[a+c], pix[b+c] = pix[b+c], pix[a+c]
	}
}
