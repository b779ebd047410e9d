package batch

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 3), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func seededOptions(seed uint64) Options {
	p := effects.Defaults()
	p.Noise = 40
	p.Block = 2
	return Options{
		Params: p,
		Device: raster.DeviceStandard,
		Rand:   rand.New(rand.NewPCG(seed, seed)),
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 30, 20)

	require.NoError(t, RenderFile(in, out, Options{Params: effects.Defaults()}, quietLogger()))
	assert.Equal(t, image.Rect(0, 0, 30, 20), readPNG(t, out).Bounds())
}

func TestRenderFile_DisplaySize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 30, 20)

	opts := Options{Params: effects.Defaults(), DisplayWidth: 90, DisplayHeight: 90}
	require.NoError(t, RenderFile(in, out, opts, quietLogger()))
	assert.Equal(t, image.Rect(0, 0, 90, 90), readPNG(t, out).Bounds())
}

func TestRenderFile_SeedIsReproducible(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 64, 48)

	outA := filepath.Join(dir, "a.png")
	outB := filepath.Join(dir, "b.png")
	require.NoError(t, RenderFile(in, outA, seededOptions(7), quietLogger()))
	require.NoError(t, RenderFile(in, outB, seededOptions(7), quietLogger()))

	a, err := os.ReadFile(outA)
	require.NoError(t, err)
	b, err := os.ReadFile(outB)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := RenderFile(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.png"), Options{}, quietLogger())
	assert.ErrorContains(t, err, "failed to open")
}

func TestProcessor(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "rendered")
	writePNG(t, filepath.Join(in, "one.png"), 10, 10)
	writePNG(t, filepath.Join(in, "two.PNG"), 12, 8)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip me"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.png"), 0755))

	p := effects.Defaults()
	p.Vignette = 50
	proc, err := NewProcessor(in, out, 2, Options{Params: p}, quietLogger())
	require.NoError(t, err)
	assert.Len(t, proc.Files(), 2)

	proc.DispatchJobs()
	proc.StartWorkers()
	assert.Empty(t, proc.Wait())

	assert.FileExists(t, filepath.Join(out, "one.png"))
	assert.FileExists(t, filepath.Join(out, "two.png"))
}

func TestProcessor_CollectsFailures(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "good.png"), 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.png"), []byte("garbage"), 0644))

	proc, err := NewProcessor(in, t.TempDir(), 1, Options{Params: effects.Defaults()}, quietLogger())
	require.NoError(t, err)

	proc.DispatchJobs()
	proc.StartWorkers()
	errs := proc.Wait()
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "bad.png")
}

func TestNewProcessor_Validation(t *testing.T) {
	in := t.TempDir()

	_, err := NewProcessor(in, t.TempDir(), 0, Options{}, quietLogger())
	assert.ErrorContains(t, err, "pool size")

	_, err = NewProcessor(in, t.TempDir(), 1, Options{}, quietLogger())
	assert.ErrorContains(t, err, "no images")

	writePNG(t, filepath.Join(in, "x.png"), 2, 2)
	_, err = NewProcessor(in, t.TempDir(), 4, seededOptions(1), quietLogger())
	assert.ErrorContains(t, err, "random source")
}
