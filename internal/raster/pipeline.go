package raster

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Rand is the random source drawn on by the stochastic stages. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Frame carries the working buffer through one pipeline run.
type Frame struct {
	Buf   *PixelBuffer
	Scale float64
	Rand  Rand
	Log   logrus.FieldLogger
}

type PipelineStage interface {
	Name() string
	// Enabled reports whether the stage's parameters are past their no-op
	// threshold. Disabled stages are skipped.
	Enabled() bool
	Process(f *Frame) error
}

// Pipeline runs the enabled stages in order, always handing the buffer left
// on the frame by one stage to the next.
func (f *Frame) Pipeline(stages ...PipelineStage) error {
	if f.Buf == nil {
		return nil
	}

	for _, stage := range stages {
		if !stage.Enabled() {
			continue
		}

		width, height := f.Buf.Width, f.Buf.Height
		start := time.Now()
		if err := stage.Process(f); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}
		if f.Buf == nil || f.Buf.Width != width || f.Buf.Height != height || len(f.Buf.Pix) != width*height*4 {
			return fmt.Errorf("stage %s changed buffer shape", stage.Name())
		}

		if f.Log != nil {
			f.Log.WithFields(logrus.Fields{
				"stage":   stage.Name(),
				"elapsed": time.Since(start),
			}).Debug("stage complete")
		}
	}
	return nil
}
