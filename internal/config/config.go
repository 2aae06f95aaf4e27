package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Face     FaceConfig     `yaml:"face"`
	Camera   CameraConfig   `yaml:"camera"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // mysql (default) or postgres
	URL          string `yaml:"url"`    // DSN for the selected driver
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type FaceConfig struct {
	ServiceURL     string        `yaml:"service_url"`     // face detection/encoding server
	EncodingDim    int           `yaml:"encoding_dim"`    // components per encoding
	MatchTolerance float64       `yaml:"match_tolerance"` // maximum Euclidean distance for a match
	Cooldown       time.Duration `yaml:"cooldown"`        // per-person re-announcement window
}

type CameraConfig struct {
	Device       string        `yaml:"device"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	FrameTimeout time.Duration `yaml:"frame_timeout"`
	PreviewPath  string        `yaml:"preview_path"` // annotated frame is written here when set
}

type LedgerConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// envString returns the environment value, or def when unset or empty.
func envString(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat is envInt for positive floats.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration accepts Go durations ("5s", "1m") or a bare number of seconds.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
		return time.Duration(n * float64(time.Second))
	}
	return defaultVal
}

func defaults() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// embedded file, cannot fail outside of development
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return cfg
}

// Load returns the configuration from the environment layered over the
// embedded defaults.
func Load() *Config {
	d := defaults()

	return &Config{
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", d.Database.Driver),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", d.Database.MaxOpenConns),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", d.Database.MaxIdleConns),
		},
		Face: FaceConfig{
			ServiceURL:     envString("FACE_SERVICE_URL", d.Face.ServiceURL),
			EncodingDim:    envInt("FACE_ENCODING_DIM", d.Face.EncodingDim),
			MatchTolerance: envFloat("MATCH_TOLERANCE", d.Face.MatchTolerance),
			Cooldown:       envDuration("COOLDOWN", d.Face.Cooldown),
		},
		Camera: CameraConfig{
			Device:       envString("CAMERA_DEVICE", d.Camera.Device),
			Width:        envInt("CAMERA_WIDTH", d.Camera.Width),
			Height:       envInt("CAMERA_HEIGHT", d.Camera.Height),
			FrameTimeout: envDuration("CAMERA_FRAME_TIMEOUT", d.Camera.FrameTimeout),
			PreviewPath:  os.Getenv("PREVIEW_PATH"),
		},
		Ledger: LedgerConfig{
			CSVPath: envString("CSV_PATH", d.Ledger.CSVPath),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", d.Log.Level),
		},
	}
}
