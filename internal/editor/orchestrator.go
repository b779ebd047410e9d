package editor

import (
	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/rm-hull/glitch-lab/internal/raster/stage"
)

// BuildStages turns a parameter snapshot into the fixed, ordered list of
// stages. Each stage only receives the fields it governs. The order affects
// the output and must not change.
func BuildStages(p effects.EffectParameters, shufflers map[stage.StripDirection]stage.BandShuffler) []raster.PipelineStage {
	dir := stage.StripDirection(p.StripDirection)

	return []raster.PipelineStage{
		&stage.PixelateStage{CellSize: p.Pixelate},
		&stage.DisplaceStage{Amount: p.Displace, Frequency: p.Frequency},
		&stage.RGBShiftStage{Amount: p.RGBShift},
		&stage.RandomSwapStage{Percentage: p.Random},
		&stage.StripStage{
			Direction: dir,
			Size:      p.StripSize,
			Count:     p.StripCount,
			Intensity: p.StripIntensity,
			Shuffler:  shufflers[dir],
		},
		&stage.BlockGlitchStage{Count: p.Block},
		&stage.NoiseStage{Amplitude: p.Noise},
		&stage.ChromaticAberrationStage{Amount: p.Chromatic},
		&stage.EdgeBlendStage{Percentage: p.Edge},
		&stage.PosterizeStage{Levels: p.Posterize},
		&stage.ToneStage{
			Brightness: p.Brightness,
			Contrast:   p.Contrast,
			Saturation: p.Saturation,
			Tint:       p.TintStrength / 100,
			Red:        p.Red,
			Green:      p.Green,
			Blue:       p.Blue,
		},
		&stage.VignetteStage{Strength: p.Vignette},
	}
}

// EnabledStages lists the names of the stages that would run for p.
func EnabledStages(p effects.EffectParameters) []string {
	names := make([]string, 0)
	for _, s := range BuildStages(p, nil) {
		if s.Enabled() {
			names = append(names, s.Name())
		}
	}
	return names
}
