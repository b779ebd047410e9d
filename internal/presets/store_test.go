package presets

import (
	"path/filepath"
	"testing"

	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := openStore(t)

	p := effects.Defaults()
	p.Noise = 42
	p.StripDirection = "vertical"
	p.StripIntensity = 60
	require.NoError(t, store.Save("  vhs  ", p))

	got, err := store.Load("vhs")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store := openStore(t)

	p := effects.Defaults()
	p.Vignette = 10
	require.NoError(t, store.Save("dark", p))
	p.Vignette = 90
	require.NoError(t, store.Save("dark", p))

	got, err := store.Load("dark")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Vignette)

	list, err := store.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLiteStore_SaveClamps(t *testing.T) {
	store := openStore(t)

	p := effects.Defaults()
	p.Block = 999
	require.NoError(t, store.Save("loud", p))

	got, err := store.Load("loud")
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Block)
}

func TestSQLiteStore_InvalidName(t *testing.T) {
	store := openStore(t)

	assert.ErrorIs(t, store.Save("   ", effects.Defaults()), ErrInvalidName)
	_, err := store.Load("")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, store.Delete(""), ErrInvalidName)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("missing"), ErrNotFound)
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	store := openStore(t)

	for _, name := range []string{"zebra", "alpha", "mango"} {
		require.NoError(t, store.Save(name, effects.Defaults()))
	}

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mango", list[1].Name)
	assert.Equal(t, "zebra", list[2].Name)
	assert.False(t, list[0].UpdatedAt.IsZero())

	require.NoError(t, store.Delete("mango"))
	list, err = store.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSQLiteStore_Maintenance(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Ping())
	require.NoError(t, store.Vacuum())
}

func TestSQLiteStore_ReopenKeepsPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("keep", effects.Defaults()))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load("keep")
	assert.NoError(t, err)
}
