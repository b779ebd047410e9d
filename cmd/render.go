package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/rm-hull/glitch-lab/internal/batch"
	"github.com/rm-hull/glitch-lab/internal/export"
	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/presets"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
)

// ParamSource says where a command takes its effect parameters from: a JSON
// file, a named preset, or the defaults when both are empty.
type ParamSource struct {
	File     string
	Preset   string
	PresetDB string
}

func (ps ParamSource) Resolve() (effects.EffectParameters, error) {
	switch {
	case ps.File != "" && ps.Preset != "":
		return effects.EffectParameters{}, fmt.Errorf("use either a parameter file or a preset, not both")
	case ps.File != "":
		f, err := os.Open(ps.File)
		if err != nil {
			return effects.EffectParameters{}, fmt.Errorf("failed to open parameter file: %w", err)
		}
		defer f.Close()
		return effects.Decode(f)
	case ps.Preset != "":
		store, err := presets.Open(ps.PresetDB)
		if err != nil {
			return effects.EffectParameters{}, err
		}
		defer store.Close()
		return store.Load(ps.Preset)
	default:
		return effects.Defaults(), nil
	}
}

// RenderOptions are the flags shared by render, animate and batch.
type RenderOptions struct {
	Params        ParamSource
	Device        string
	DisplayWidth  int
	DisplayHeight int
	Seed          int64
}

func (ro RenderOptions) build() (batch.Options, error) {
	params, err := ro.Params.Resolve()
	if err != nil {
		return batch.Options{}, err
	}

	opts := batch.Options{
		Params:        params,
		Device:        raster.ParseDeviceClass(ro.Device),
		DisplayWidth:  ro.DisplayWidth,
		DisplayHeight: ro.DisplayHeight,
	}
	if ro.Seed >= 0 {
		opts.Rand = rand.New(rand.NewPCG(uint64(ro.Seed), uint64(ro.Seed)))
	}
	return opts, nil
}

func Render(inPath, outPath string, ro RenderOptions, logger *logrus.Logger) error {
	opts, err := ro.build()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"in":     inPath,
		"out":    outPath,
		"stages": enabledStages(opts.Params),
	}).Info("rendering")
	return batch.RenderFile(inPath, outPath, opts, logger)
}

func Animate(inPath, outPath string, frames int, delay float64, ro RenderOptions, logger *logrus.Logger) error {
	if frames < 1 {
		return fmt.Errorf("frame count must be at least 1")
	}

	opts, err := ro.build()
	if err != nil {
		return err
	}

	session, err := batch.OpenSession(inPath, inPath, opts, logger)
	if err != nil {
		return err
	}

	images, err := session.Frames(frames)
	if err != nil {
		return fmt.Errorf("failed to render frames: %w", err)
	}

	data, err := export.Animate(images, delay)
	if err != nil {
		return fmt.Errorf("failed to encode animation: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logger.WithFields(logrus.Fields{"out": outPath, "frames": frames}).Info("animation written")
	return nil
}

func Batch(inDir, outDir string, poolSize int, ro RenderOptions, logger *logrus.Logger) error {
	opts, err := ro.build()
	if err != nil {
		return err
	}

	processor, err := batch.NewProcessor(inDir, outDir, poolSize, opts, logger)
	if err != nil {
		return err
	}

	processor.StartWorkers()
	processor.DispatchJobs()
	if errs := processor.Wait(); len(errs) > 0 {
		for _, err := range errs {
			logger.WithError(err).Error("render failed")
		}
		return fmt.Errorf("%d of %d images failed", len(errs), len(processor.Files()))
	}
	return nil
}
