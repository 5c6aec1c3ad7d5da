// Package config loads runtime settings: built-in defaults, then an optional
// TOML file, then SUNRISE_* environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appDir = "sunrise"

// Duration wraps time.Duration so TOML can carry strings like "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// RuntimeConfig is the merged file and env configuration. ChimeInterval
// overrides the default 3s chime repeat.
type RuntimeConfig struct {
	DurationMinutes      int      `toml:"duration_minutes"`
	Audio                bool     `toml:"audio"`
	ChimeInterval        Duration `toml:"chime_interval"`
	Volume               float64  `toml:"volume"`
	VisualMode           string   `toml:"visual_mode"`
	Animate              bool     `toml:"animate"`
	DesktopNotifications bool     `toml:"desktop_notifications"`
	LogFile              string   `toml:"log_file"`
	LogLevel             string   `toml:"log_level"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DurationMinutes:      25,
		Audio:                true,
		ChimeInterval:        Duration{3 * time.Second},
		Volume:               0.6,
		VisualMode:           "blended",
		Animate:              true,
		DesktopNotifications: false,
		LogLevel:             "info",
	}
}

// Load reads the config file at path, or the first file found on the
// search path when path is empty. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (RuntimeConfig, error) {
	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	cfg := DefaultRuntimeConfig()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			cfg, err = LoadFromReader(f)
			if err != nil {
				return RuntimeConfig{}, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return RuntimeConfig{}, err
		}
	}
	return RuntimeConfigFromEnv(cfg), nil
}

// LoadFromReader decodes TOML over the defaults.
func LoadFromReader(r io.Reader) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvInt("SUNRISE_DURATION_MINUTES"); ok {
		cfg.DurationMinutes = v
	}
	if v, ok := getEnvBool("SUNRISE_AUDIO"); ok {
		cfg.Audio = v
	}
	if v, ok := getEnvDuration("SUNRISE_CHIME_INTERVAL"); ok && v > 0 {
		cfg.ChimeInterval = Duration{v}
	}
	if v, ok := getEnvFloat("SUNRISE_VOLUME"); ok {
		cfg.Volume = v
	}
	if v := strings.TrimSpace(os.Getenv("SUNRISE_VISUAL_MODE")); v != "" {
		cfg.VisualMode = v
	}
	if v, ok := getEnvBool("SUNRISE_ANIMATE"); ok {
		cfg.Animate = v
	}
	if v, ok := getEnvBool("SUNRISE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v := strings.TrimSpace(os.Getenv("SUNRISE_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("SUNRISE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// Validate reports the first setting the program cannot run with.
func (c RuntimeConfig) Validate() error {
	if c.DurationMinutes < 1 || c.DurationMinutes > 180 {
		return fmt.Errorf("duration_minutes must be 1-180, got %d", c.DurationMinutes)
	}
	if c.ChimeInterval.Duration <= 0 {
		return fmt.Errorf("chime_interval must be positive, got %s", c.ChimeInterval.Duration)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be 0-1, got %v", c.Volume)
	}
	switch strings.ToLower(strings.TrimSpace(c.VisualMode)) {
	case "blended", "discrete":
	default:
		return fmt.Errorf("visual_mode must be blended or discrete, got %q", c.VisualMode)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func searchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appDir, "config.toml"))
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", appDir, "config.toml"))
	}
	return paths
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
