package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rm-hull/glitch-lab/internal/editor"
	"github.com/rm-hull/glitch-lab/internal/models/effects"
	"github.com/rm-hull/glitch-lab/internal/presets"
)

func enabledStages(p effects.EffectParameters) []string {
	return editor.EnabledStages(p)
}

func withStore(dbPath string, fn func(store presets.Store) error) error {
	store, err := presets.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func PresetList(dbPath string, w io.Writer) error {
	return withStore(dbPath, func(store presets.Store) error {
		list, err := store.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No presets saved yet")
			return err
		}
		for _, p := range list {
			fmt.Fprintf(w, "%-24s %s  %v\n", p.Name, p.UpdatedAt.Format("2006-01-02 15:04"), enabledStages(p.Params))
		}
		return nil
	})
}

func PresetShow(dbPath, name string, w io.Writer) error {
	return withStore(dbPath, func(store presets.Store) error {
		params, err := store.Load(name)
		if err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	})
}

// PresetSave stores the parameters read from file (or stdin when file is
// "-") under name, replacing any preset of the same name.
func PresetSave(dbPath, name, file string) error {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open parameter file: %w", err)
		}
		defer f.Close()
		r = f
	}

	params, err := effects.Decode(r)
	if err != nil {
		return err
	}
	return withStore(dbPath, func(store presets.Store) error {
		return store.Save(name, params)
	})
}

func PresetDelete(dbPath, name string) error {
	return withStore(dbPath, func(store presets.Store) error {
		if err := store.Delete(name); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		return nil
	})
}
