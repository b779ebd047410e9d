package stage

import (
	"math/rand/v2"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

// fixedRand returns the same draws every time.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int { return r.n % n }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func frameOf(buf *raster.PixelBuffer, rnd raster.Rand) *raster.Frame {
	return &raster.Frame{Buf: buf, Scale: 1, Rand: rnd}
}

// patterned fills a buffer with distinct, deterministic pixel values.
func patterned(w, h int) *raster.PixelBuffer {
	buf := raster.NewPixelBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		p := i / 4
		buf.Pix[i] = uint8(p * 13)
		buf.Pix[i+1] = uint8(p*29 + 7)
		buf.Pix[i+2] = uint8(p*53 + 101)
		buf.Pix[i+3] = uint8(255 - p%7)
	}
	return buf
}

func uniform(w, h int, r, g, b, a uint8) *raster.PixelBuffer {
	buf := raster.NewPixelBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = r, g, b, a
	}
	return buf
}

func pixelAt(buf *raster.PixelBuffer, x, y int) [4]uint8 {
	i := buf.Offset(x, y)
	return [4]uint8{buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]}
}

func pixelCounts(buf *raster.PixelBuffer) map[[4]uint8]int {
	counts := make(map[[4]uint8]int)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			counts[pixelAt(buf, x, y)]++
		}
	}
	return counts
}
