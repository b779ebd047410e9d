package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rm-hull/glitch-lab/internal/raster"
)

type Config struct {
	PresetDB       string
	SessionTTL     time.Duration
	RefreshHz      int
	VacuumSchedule string
	Device         raster.DeviceClass
	MaxUploadBytes int64
	// MaxPixels caps decoded upload dimensions, display surfaces and the
	// total area of an animation.
	MaxPixels int64
}

func Defaults() Config {
	return Config{
		PresetDB:       "./data/presets.db",
		SessionTTL:     30 * time.Minute,
		RefreshHz:      60,
		VacuumSchedule: "0 4 * * *",
		Device:         raster.DeviceStandard,
		MaxUploadBytes: 32 << 20,
		MaxPixels:      40_000_000,
	}
}

// FromEnv overlays any GLITCH_* environment variables on the defaults.
func FromEnv() (Config, error) {
	cfg := Defaults()

	if v := os.Getenv("GLITCH_PRESET_DB"); v != "" {
		cfg.PresetDB = v
	}
	if v := os.Getenv("GLITCH_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLITCH_SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("GLITCH_REFRESH_HZ"); v != "" {
		hz, err := strconv.Atoi(v)
		if err != nil || hz <= 0 {
			return cfg, fmt.Errorf("invalid GLITCH_REFRESH_HZ %q", v)
		}
		cfg.RefreshHz = hz
	}
	if v := os.Getenv("GLITCH_VACUUM_SCHEDULE"); v != "" {
		cfg.VacuumSchedule = v
	}
	if v := os.Getenv("GLITCH_DEVICE"); v != "" {
		cfg.Device = raster.ParseDeviceClass(v)
	}
	if v := os.Getenv("GLITCH_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid GLITCH_MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("GLITCH_MAX_PIXELS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid GLITCH_MAX_PIXELS %q", v)
		}
		cfg.MaxPixels = n
	}
	return cfg, nil
}
