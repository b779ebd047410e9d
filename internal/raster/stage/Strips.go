package stage

import (
	"fmt"
	"math"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type StripDirection string

const (
	StripNone       StripDirection = "none"
	StripHorizontal StripDirection = "horizontal"
	StripVertical   StripDirection = "vertical"
	StripGrid       StripDirection = "grid"
)

func ParseStripDirection(s string) (StripDirection, error) {
	switch d := StripDirection(s); d {
	case StripNone, StripHorizontal, StripVertical, StripGrid:
		return d, nil
	case "":
		return StripNone, nil
	default:
		return StripNone, fmt.Errorf("unknown strip direction %q", s)
	}
}

// BandShuffler reorders pixel values inside bands of the buffer. It must
// return a buffer with the same dimensions as the one it was given.
type BandShuffler interface {
	ShuffleBands(buf *raster.PixelBuffer, size, count int, intensity float64, rnd raster.Rand) *raster.PixelBuffer
}

// DefaultShufflers maps each direction to the built-in strategy.
var DefaultShufflers = map[StripDirection]BandShuffler{
	StripHorizontal: HorizontalBands{},
	StripVertical:   VerticalBands{},
	StripGrid:       GridCells{},
}

type StripStage struct {
	Direction StripDirection
	Size      float64
	Count     float64
	Intensity float64
	// Shuffler overrides the strategy looked up from DefaultShufflers.
	Shuffler BandShuffler
}

func (s *StripStage) Name() string { return "strips" }

func (s *StripStage) Enabled() bool {
	return s.Direction != StripNone && s.Direction != "" &&
		s.Intensity > 0 && s.Size >= 1 && s.Count >= 1
}

func (s *StripStage) Process(f *raster.Frame) error {
	shuffler := s.Shuffler
	if shuffler == nil {
		shuffler = DefaultShufflers[s.Direction]
	}
	if shuffler == nil {
		return fmt.Errorf("no band shuffler for direction %q", s.Direction)
	}

	size := int(math.Floor(s.Size))
	count := int(math.Floor(s.Count))
	f.Buf = shuffler.ShuffleBands(f.Buf, size, count, s.Intensity, f.Rand)
	return nil
}

// HorizontalBands shuffles pixels within randomly chosen runs of rows.
type HorizontalBands struct{}

func (HorizontalBands) ShuffleBands(buf *raster.PixelBuffer, size, count int, intensity float64, rnd raster.Rand) *raster.PixelBuffer {
	if degenerate(buf, size, count) {
		return buf
	}
	size = min(size, buf.Height)
	for range count {
		y := rnd.IntN(buf.Height - size + 1)
		shuffleRect(buf, 0, y, buf.Width, y+size, intensity, rnd)
	}
	return buf
}

// VerticalBands shuffles pixels within randomly chosen runs of columns.
type VerticalBands struct{}

func (VerticalBands) ShuffleBands(buf *raster.PixelBuffer, size, count int, intensity float64, rnd raster.Rand) *raster.PixelBuffer {
	if degenerate(buf, size, count) {
		return buf
	}
	size = min(size, buf.Width)
	for range count {
		x := rnd.IntN(buf.Width - size + 1)
		shuffleRect(buf, x, 0, x+size, buf.Height, intensity, rnd)
	}
	return buf
}

// GridCells shuffles pixels within randomly chosen cells of a size x size grid.
type GridCells struct{}

func (GridCells) ShuffleBands(buf *raster.PixelBuffer, size, count int, intensity float64, rnd raster.Rand) *raster.PixelBuffer {
	if degenerate(buf, size, count) {
		return buf
	}
	cols := (buf.Width + size - 1) / size
	rows := (buf.Height + size - 1) / size
	for range count {
		cx := rnd.IntN(cols) * size
		cy := rnd.IntN(rows) * size
		shuffleRect(buf, cx, cy, min(cx+size, buf.Width), min(cy+size, buf.Height), intensity, rnd)
	}
	return buf
}

func degenerate(buf *raster.PixelBuffer, size, count int) bool {
	return size < 1 || count < 1 || buf.Width < 1 || buf.Height < 1
}

// shuffleRect swaps each pixel of the rectangle, with probability
// intensity/100, with another pixel chosen uniformly from the same rectangle.
func shuffleRect(buf *raster.PixelBuffer, x0, y0, x1, y1 int, intensity float64, rnd raster.Rand) {
	w, h := x1-x0, y1-y0
	n := w * h
	if n < 2 {
		return
	}

	p := intensity / 100
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if rnd.Float64() >= p {
				continue
			}
			j := rnd.IntN(n)
			swapPixels(buf.Pix, buf.Offset(x, y), buf.Offset(x0+j%w, y0+j/w))
		}
	}
}
