package batch

import (
	"fmt"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rm-hull/glitch-lab/internal/editor"
	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
)

// Options controls how a single image is rendered outside the server.
type Options struct {
	Params effects.EffectParameters
	Device raster.DeviceClass
	// DisplayWidth and DisplayHeight size the output surface; zero keeps the
	// working resolution.
	DisplayWidth  int
	DisplayHeight int
	// Rand replaces the session's random source when set.
	Rand raster.Rand
}

// OpenSession decodes the input file into a fresh session configured by opts.
func OpenSession(id, inPath string, opts Options, logger logrus.FieldLogger) (*editor.EditorSession, error) {
	img, err := imgio.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", inPath, err)
	}

	src, err := raster.NewSourceImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	session := editor.NewEditorSession(id, opts.Device, logger)
	if opts.Rand != nil {
		session.Rand = opts.Rand
	}
	session.SetSource(src)
	session.Resize(opts.DisplayWidth, opts.DisplayHeight)
	session.SetParams(opts.Params)
	return session, nil
}

// RenderFile runs the pipeline once over inPath and writes the composited
// surface to outPath as PNG.
func RenderFile(inPath, outPath string, opts Options, logger logrus.FieldLogger) error {
	session, err := OpenSession(inPath, inPath, opts, logger)
	if err != nil {
		return err
	}

	if err := session.Render(); err != nil {
		return fmt.Errorf("failed to render %s: %w", inPath, err)
	}

	if err := imgio.Save(outPath, session.Surface(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
