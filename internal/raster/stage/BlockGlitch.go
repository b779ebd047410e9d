package stage

import (
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

const (
	blockMinWidth   = 20
	blockWidthSpan  = 80
	blockMinHeight  = 10
	blockHeightSpan = 50
	blockMinShift   = 5
	blockShiftSpan  = 45

	// the block origin is kept this far from the right and bottom edges
	blockMarginX = 50
	blockMarginY = 20
)

type BlockGlitchStage struct {
	Count float64
}

func (s *BlockGlitchStage) Name() string { return "block-glitch" }

func (s *BlockGlitchStage) Enabled() bool { return int(math.Floor(s.Count)) > 0 }

// Process picks Count random rectangles and rotates each of their scanlines
// circularly by a random distance. Later rectangles may overlap earlier ones.
func (s *BlockGlitchStage) Process(f *raster.Frame) error {
	buf := f.Buf
	count := int(math.Floor(s.Count))
	row := make([]uint8, 0, (blockMinWidth+blockWidthSpan)*4)

	for range count {
		x := f.Rand.IntN(max(1, buf.Width-blockMarginX))
		y := f.Rand.IntN(max(1, buf.Height-blockMarginY))
		w := blockMinWidth + f.Rand.IntN(blockWidthSpan)
		h := blockMinHeight + f.Rand.IntN(blockHeightSpan)
		shift := blockMinShift + f.Rand.IntN(blockShiftSpan)

		xEnd := min(x+w, buf.Width)
		yEnd := min(y+h, buf.Height)
		n := xEnd - x
		if n <= 0 {
			continue
		}

		for by := y; by < yEnd; by++ {
			start := buf.Offset(x, by)
			segment := buf.Pix[start : start+n*4]
			row = append(row[:0], segment...)
			for i := range n {
				ni := (i + shift) % n
				copy(segment[ni*4:ni*4+4], row[i*4:i*4+4])
			}
		}
	}
	return nil
}
