package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.DurationMinutes != 25 || !cfg.Audio || cfg.ChimeInterval.Duration != 3*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.VisualMode != "blended" || !cfg.Animate || cfg.DesktopNotifications {
		t.Fatalf("unexpected presentation defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("SUNRISE_DURATION_MINUTES", "45")
	t.Setenv("SUNRISE_AUDIO", "off")
	t.Setenv("SUNRISE_CHIME_INTERVAL", "5s")
	t.Setenv("SUNRISE_VOLUME", "0.25")
	t.Setenv("SUNRISE_VISUAL_MODE", "discrete")
	t.Setenv("SUNRISE_ANIMATE", "no")
	t.Setenv("SUNRISE_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("SUNRISE_LOG_FILE", "/tmp/sunrise.log")
	t.Setenv("SUNRISE_LOG_LEVEL", "debug")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DurationMinutes != 45 || cfg.Audio || cfg.ChimeInterval.Duration != 5*time.Second {
		t.Fatalf("unexpected timer overrides: %+v", cfg)
	}
	if cfg.Volume != 0.25 || cfg.VisualMode != "discrete" || cfg.Animate {
		t.Fatalf("unexpected presentation overrides: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.LogFile != "/tmp/sunrise.log" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected ambient overrides: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SUNRISE_DURATION_MINUTES", "lots")
	t.Setenv("SUNRISE_AUDIO", "maybe")
	t.Setenv("SUNRISE_CHIME_INTERVAL", "-2s")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DurationMinutes != 25 || !cfg.Audio || cfg.ChimeInterval.Duration != 3*time.Second {
		t.Fatalf("garbage env changed config: %+v", cfg)
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
duration_minutes = 60
audio = false
chime_interval = "2s"
visual_mode = "discrete"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DurationMinutes != 60 || cfg.Audio || cfg.ChimeInterval.Duration != 2*time.Second || cfg.VisualMode != "discrete" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Volume != 0.6 {
		t.Fatalf("unset keys must keep defaults: %+v", cfg)
	}
}

func TestLoadFromReaderRejectsBadDuration(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader(`chime_interval = "soon"`)); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DurationMinutes != 25 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadSearchesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SUNRISE_DURATION_MINUTES", "")
	path := filepath.Join(dir, "sunrise", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("duration_minutes = 50\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DurationMinutes != 50 {
		t.Fatalf("expected file value, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []func(*RuntimeConfig){
		func(c *RuntimeConfig) { c.DurationMinutes = 0 },
		func(c *RuntimeConfig) { c.DurationMinutes = 181 },
		func(c *RuntimeConfig) { c.ChimeInterval = Duration{} },
		func(c *RuntimeConfig) { c.Volume = 1.5 },
		func(c *RuntimeConfig) { c.VisualMode = "neon" },
		func(c *RuntimeConfig) { c.LogLevel = "loud" },
	}
	for i, mutate := range cases {
		cfg := DefaultRuntimeConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, cfg)
		}
	}
}
