package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/kettek/apng"
)

const Filename = "edited_image.png"

var (
	ErrNoFrames     = errors.New("no frames to animate")
	ErrInvalidDelay = errors.New("frame delay out of range")
)

// MaxFrameDelay is the longest delay an APNG frame can carry with
// millisecond precision.
const MaxFrameDelay = 65.535

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Animate encodes the frames as a looping APNG, showing each one for
// frameDelay seconds. The delay must round to between 1ms and MaxFrameDelay.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	millis := math.Round(frameDelay * 1000)
	if !(millis >= 1 && millis <= math.MaxUint16) {
		return nil, fmt.Errorf("%w: %vs (must be between 0.001 and %v)", ErrInvalidDelay, frameDelay, MaxFrameDelay)
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, img := range frames {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(millis),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
