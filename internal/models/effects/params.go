package effects

import (
	"encoding/json"
	"fmt"
	"io"
)

// EffectParameters is the full set of effect controls. JSON names follow the
// control identifiers used by saved presets.
type EffectParameters struct {
	Displace       float64 `json:"displace"`
	Frequency      float64 `json:"frequency"`
	RGBShift       float64 `json:"rgbShift"`
	Noise          float64 `json:"noise"`
	Random         float64 `json:"random"`
	Block          float64 `json:"block"`
	Edge           float64 `json:"edge"`
	Saturation     float64 `json:"saturation"`
	Brightness     float64 `json:"brightness"`
	Contrast       float64 `json:"contrast"`
	TintStrength   float64 `json:"tintStrength"`
	Red            float64 `json:"red"`
	Green          float64 `json:"green"`
	Blue           float64 `json:"blue"`
	Pixelate       float64 `json:"pixelate"`
	Vignette       float64 `json:"vignette"`
	Chromatic      float64 `json:"chromatic"`
	Posterize      float64 `json:"posterize"`
	StripDirection string  `json:"stripDirection"`
	StripSize      float64 `json:"stripSize"`
	StripCount     float64 `json:"stripCount"`
	StripIntensity float64 `json:"stripIntensity"`
}

// Range is the declared min/max of one numeric control.
type Range struct {
	Min, Max float64
}

func (r Range) Clamp(v float64) float64 {
	if v != v {
		return r.Min
	}
	return min(max(v, r.Min), r.Max)
}

var (
	DisplaceRange   = Range{0, 100}
	FrequencyRange  = Range{0.001, 0.5}
	RGBShiftRange   = Range{0, 50}
	PercentRange    = Range{0, 100}
	BlockRange      = Range{0, 50}
	FactorRange     = Range{0, 3}
	ChannelRange    = Range{0, 255}
	PixelateRange   = Range{1, 50}
	ChromaticRange  = Range{0, 50}
	PosterizeRange  = Range{2, 256}
	StripSizeRange  = Range{1, 100}
	StripCountRange = Range{1, 50}
)

var stripDirections = map[string]bool{
	"none":       true,
	"horizontal": true,
	"vertical":   true,
	"grid":       true,
}

// Defaults returns every control at its no-op value.
func Defaults() EffectParameters {
	return EffectParameters{
		Frequency:      0.001,
		Saturation:     1,
		Brightness:     1,
		Contrast:       1,
		Red:            128,
		Green:          128,
		Blue:           128,
		Pixelate:       1,
		Posterize:      256,
		StripDirection: "none",
		StripSize:      10,
		StripCount:     5,
	}
}

// Clamp returns a copy with every control forced into its declared range.
// An unrecognised strip direction becomes "none".
func (p EffectParameters) Clamp() EffectParameters {
	p.Displace = DisplaceRange.Clamp(p.Displace)
	p.Frequency = FrequencyRange.Clamp(p.Frequency)
	p.RGBShift = RGBShiftRange.Clamp(p.RGBShift)
	p.Noise = PercentRange.Clamp(p.Noise)
	p.Random = PercentRange.Clamp(p.Random)
	p.Block = BlockRange.Clamp(p.Block)
	p.Edge = PercentRange.Clamp(p.Edge)
	p.Saturation = FactorRange.Clamp(p.Saturation)
	p.Brightness = FactorRange.Clamp(p.Brightness)
	p.Contrast = FactorRange.Clamp(p.Contrast)
	p.TintStrength = PercentRange.Clamp(p.TintStrength)
	p.Red = ChannelRange.Clamp(p.Red)
	p.Green = ChannelRange.Clamp(p.Green)
	p.Blue = ChannelRange.Clamp(p.Blue)
	p.Pixelate = PixelateRange.Clamp(p.Pixelate)
	p.Vignette = PercentRange.Clamp(p.Vignette)
	p.Chromatic = ChromaticRange.Clamp(p.Chromatic)
	p.Posterize = PosterizeRange.Clamp(p.Posterize)
	p.StripSize = StripSizeRange.Clamp(p.StripSize)
	p.StripCount = StripCountRange.Clamp(p.StripCount)
	p.StripIntensity = PercentRange.Clamp(p.StripIntensity)
	if !stripDirections[p.StripDirection] {
		p.StripDirection = "none"
	}
	return p
}

// Decode reads a JSON document on top of the defaults, so omitted fields
// keep their no-op values, then clamps the result.
func Decode(r io.Reader) (EffectParameters, error) {
	p := Defaults()
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return EffectParameters{}, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return p.Clamp(), nil
}
