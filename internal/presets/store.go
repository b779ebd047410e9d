package presets

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/glitch-lab/internal/models/effects"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound    = errors.New("preset not found")
	ErrInvalidName = errors.New("preset name must not be blank")
)

type Preset struct {
	Name      string                   `json:"name"`
	Params    effects.EffectParameters `json:"params"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// Store persists named parameter sets. Names are unique; saving over an
// existing name replaces it.
type Store interface {
	Save(name string, params effects.EffectParameters) error
	Load(name string) (effects.EffectParameters, error)
	Delete(name string) error
	List() ([]Preset, error)
	Ping() error
	Vacuum() error
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS presets (
	name       TEXT PRIMARY KEY,
	params     TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create preset directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset database: %w", err)
	}
	// sqlite only tolerates one writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create preset schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func (s *SQLiteStore) Save(name string, params effects.EffectParameters) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	data, err := json.Marshal(params.Clamp())
	if err != nil {
		return fmt.Errorf("failed to marshal preset %s: %w", name, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO presets (name, params, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET params = excluded.params, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save preset %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Load(name string) (effects.EffectParameters, error) {
	name, err := normalizeName(name)
	if err != nil {
		return effects.EffectParameters{}, err
	}

	var data string
	err = s.db.QueryRow(`SELECT params FROM presets WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return effects.EffectParameters{}, ErrNotFound
	}
	if err != nil {
		return effects.EffectParameters{}, fmt.Errorf("failed to load preset %s: %w", name, err)
	}

	params, err := effects.Decode(strings.NewReader(data))
	if err != nil {
		return effects.EffectParameters{}, fmt.Errorf("corrupt preset %s: %w", name, err)
	}
	return params, nil
}

func (s *SQLiteStore) Delete(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List() ([]Preset, error) {
	rows, err := s.db.Query(`SELECT name, params, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		var name, data string
		var updated int64
		if err := rows.Scan(&name, &data, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		params, err := effects.Decode(strings.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("corrupt preset %s: %w", name, err)
		}
		presets = append(presets, Preset{Name: name, Params: params, UpdatedAt: time.UnixMilli(updated).UTC()})
	}
	return presets, rows.Err()
}

func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) Vacuum() error {
	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("failed to vacuum preset database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
