package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_DRIVER", "DATABASE_URL", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS",
		"FACE_SERVICE_URL", "FACE_ENCODING_DIM", "MATCH_TOLERANCE", "COOLDOWN",
		"CAMERA_DEVICE", "CAMERA_WIDTH", "CAMERA_HEIGHT", "CAMERA_FRAME_TIMEOUT",
		"PREVIEW_PATH", "CSV_PATH", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Database.Driver != "mysql" {
		t.Errorf("expected default driver 'mysql', got '%s'", cfg.Database.Driver)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Database.MaxOpenConns != 5 {
		t.Errorf("expected max open conns 5, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Face.ServiceURL != "http://localhost:8000" {
		t.Errorf("expected default face service URL, got '%s'", cfg.Face.ServiceURL)
	}
	if cfg.Face.EncodingDim != 512 {
		t.Errorf("expected encoding dim 512, got %d", cfg.Face.EncodingDim)
	}
	if cfg.Face.MatchTolerance != 0.9 {
		t.Errorf("expected tolerance 0.9, got %f", cfg.Face.MatchTolerance)
	}
	if cfg.Face.Cooldown != 5*time.Second {
		t.Errorf("expected cooldown 5s, got %v", cfg.Face.Cooldown)
	}
	if cfg.Camera.Device != "/dev/video0" {
		t.Errorf("expected camera /dev/video0, got '%s'", cfg.Camera.Device)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.PreviewPath != "" {
		t.Errorf("expected no preview path, got '%s'", cfg.Camera.PreviewPath)
	}
	if cfg.Ledger.CSVPath != "attendance.csv" {
		t.Errorf("expected attendance.csv, got '%s'", cfg.Ledger.CSVPath)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got '%s'", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("FACE_SERVICE_URL", "http://faces:9000")
	t.Setenv("FACE_ENCODING_DIM", "128")
	t.Setenv("MATCH_TOLERANCE", "0.45")
	t.Setenv("COOLDOWN", "2m")
	t.Setenv("CAMERA_DEVICE", "/dev/video2")
	t.Setenv("PREVIEW_PATH", "/tmp/preview.jpg")
	t.Setenv("CSV_PATH", "/var/lib/attendance.csv")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected driver 'postgres', got '%s'", cfg.Database.Driver)
	}
	if cfg.Database.URL != "postgres://u:p@localhost/db" {
		t.Errorf("unexpected database URL '%s'", cfg.Database.URL)
	}
	if cfg.Face.ServiceURL != "http://faces:9000" {
		t.Errorf("unexpected face service URL '%s'", cfg.Face.ServiceURL)
	}
	if cfg.Face.EncodingDim != 128 {
		t.Errorf("expected encoding dim 128, got %d", cfg.Face.EncodingDim)
	}
	if cfg.Face.MatchTolerance != 0.45 {
		t.Errorf("expected tolerance 0.45, got %f", cfg.Face.MatchTolerance)
	}
	if cfg.Face.Cooldown != 2*time.Minute {
		t.Errorf("expected cooldown 2m, got %v", cfg.Face.Cooldown)
	}
	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("unexpected camera device '%s'", cfg.Camera.Device)
	}
	if cfg.Camera.PreviewPath != "/tmp/preview.jpg" {
		t.Errorf("unexpected preview path '%s'", cfg.Camera.PreviewPath)
	}
	if cfg.Ledger.CSVPath != "/var/lib/attendance.csv" {
		t.Errorf("unexpected CSV path '%s'", cfg.Ledger.CSVPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level '%s'", cfg.Log.Level)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"non-numeric dim", "FACE_ENCODING_DIM", "abc", func(c *Config) bool { return c.Face.EncodingDim == 512 }},
		{"negative dim", "FACE_ENCODING_DIM", "-1", func(c *Config) bool { return c.Face.EncodingDim == 512 }},
		{"zero tolerance", "MATCH_TOLERANCE", "0", func(c *Config) bool { return c.Face.MatchTolerance == 0.9 }},
		{"negative tolerance", "MATCH_TOLERANCE", "-0.5", func(c *Config) bool { return c.Face.MatchTolerance == 0.9 }},
		{"garbage cooldown", "COOLDOWN", "soon", func(c *Config) bool { return c.Face.Cooldown == 5*time.Second }},
		{"zero conns", "DATABASE_MAX_OPEN_CONNS", "0", func(c *Config) bool { return c.Database.MaxOpenConns == 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if cfg := Load(); !tt.check(cfg) {
				t.Errorf("%s=%q did not fall back to default", tt.key, tt.value)
			}
		})
	}
}

func TestEnvDuration_BareSeconds(t *testing.T) {
	t.Setenv("COOLDOWN", "7.5")

	if got := envDuration("COOLDOWN", time.Second); got != 7500*time.Millisecond {
		t.Errorf("expected 7.5s, got %v", got)
	}
}
