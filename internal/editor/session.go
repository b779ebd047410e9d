package editor

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/rm-hull/glitch-lab/internal/raster/stage"
	"github.com/sirupsen/logrus"
)

// EditorSession is the explicit state of one editing session: the uploaded
// source, the current parameters and the most recent render.
type EditorSession struct {
	ID        string
	Device    raster.DeviceClass
	Rand      raster.Rand
	Shufflers map[stage.StripDirection]stage.BandShuffler

	source  *raster.SourceImage
	params  effects.EffectParameters
	working *raster.PixelBuffer
	scale   float64
	surface *image.NRGBA
	// sized is set once a display size has been requested explicitly
	sized bool
	log   logrus.FieldLogger

	lastUsed time.Time
	renders  int
}

func NewEditorSession(id string, device raster.DeviceClass, logger logrus.FieldLogger) *EditorSession {
	return &EditorSession{
		ID:       id,
		Device:   device,
		Rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		params:   effects.Defaults(),
		log:      logger.WithField("session", id),
		lastUsed: time.Now(),
	}
}

// SetSource replaces the uploaded image and keeps the current parameters.
// Until a display size is set the surface follows the working size, and is
// swapped at the next render so the last preview stays valid meanwhile.
func (s *EditorSession) SetSource(src *raster.SourceImage) {
	s.source = src
	s.working = nil
	if s.surface == nil && src != nil {
		w, h, _ := raster.ProcessSize(src.Width(), src.Height(), s.Device.Cap())
		s.surface = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	s.Touch()
}

func (s *EditorSession) Source() *raster.SourceImage {
	return s.source
}

func (s *EditorSession) SetParams(p effects.EffectParameters) {
	s.params = p.Clamp()
	s.Touch()
}

func (s *EditorSession) Params() effects.EffectParameters {
	return s.params
}

func (s *EditorSession) Reset() {
	s.SetParams(effects.Defaults())
}

// Resize replaces the display surface. Non-positive sizes are ignored.
func (s *EditorSession) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.surface = image.NewNRGBA(image.Rect(0, 0, width, height))
	s.sized = true
	s.Touch()
}

// DisplaySize is the size the next render is composited at: the requested
// display size, or else the working size of the source. It is 0x0 when
// there is neither.
func (s *EditorSession) DisplaySize() (width, height int) {
	switch {
	case s.sized:
		return s.surface.Rect.Dx(), s.surface.Rect.Dy()
	case s.source != nil:
		width, height, _ = raster.ProcessSize(s.source.Width(), s.source.Height(), s.Device.Cap())
		return width, height
	default:
		return 0, 0
	}
}

// Surface is the display surface after the most recent render, or nil when
// nothing has been rendered yet.
func (s *EditorSession) Surface() *image.NRGBA {
	if s.renders == 0 {
		return nil
	}
	return s.surface
}

// Working is the processed buffer from the most recent render.
func (s *EditorSession) Working() *raster.PixelBuffer {
	return s.working
}

func (s *EditorSession) Renders() int {
	return s.renders
}

func (s *EditorSession) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.lastUsed)
}

// Touch marks the session as recently used.
func (s *EditorSession) Touch() {
	s.lastUsed = time.Now()
}

// Process runs downsample and the effect pipeline against a snapshot of the
// current parameters and returns the processed working buffer. Without a
// source it returns nil.
func (s *EditorSession) Process() (*raster.PixelBuffer, error) {
	buf, scale := raster.Downsample(s.source, s.Device.Cap())
	if buf == nil {
		return nil, nil
	}

	frame := &raster.Frame{Buf: buf, Scale: scale, Rand: s.Rand, Log: s.log}
	if err := frame.Pipeline(BuildStages(s.params, s.Shufflers)...); err != nil {
		return nil, err
	}
	s.scale = scale
	return frame.Buf, nil
}

// Render processes the source and composites the result onto the display
// surface.
func (s *EditorSession) Render() error {
	start := time.Now()
	buf, err := s.Process()
	if err != nil {
		return err
	}
	if buf == nil {
		return nil
	}

	s.working = buf
	if bounds := s.displayBounds(buf); bounds != s.surface.Rect {
		s.surface = image.NewNRGBA(bounds)
	}
	raster.Composite(s.surface, buf)
	s.renders++

	s.log.WithFields(logrus.Fields{
		"width":   buf.Width,
		"height":  buf.Height,
		"scale":   s.scale,
		"elapsed": time.Since(start),
	}).Debug("render complete")
	return nil
}

// Frames runs the pipeline n times against the current parameters and
// composites each run onto its own surface, leaving the session's display
// surface untouched. Stochastic stages give every frame fresh randomness.
func (s *EditorSession) Frames(n int) ([]image.Image, error) {
	if s.source == nil {
		return nil, nil
	}

	frames := make([]image.Image, 0, n)
	for range n {
		buf, err := s.Process()
		if err != nil {
			return nil, err
		}
		surface := image.NewNRGBA(s.displayBounds(buf))
		raster.Composite(surface, buf)
		frames = append(frames, surface)
	}
	s.Touch()
	return frames, nil
}

func (s *EditorSession) displayBounds(buf *raster.PixelBuffer) image.Rectangle {
	if s.sized {
		return s.surface.Rect
	}
	return image.Rect(0, 0, buf.Width, buf.Height)
}
