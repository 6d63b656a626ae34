package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "LOTTERY_"

// Config holds the lottery run settings.
type Config struct {
	RegistrationWindow time.Duration `yaml:"registration_window" env:"REGISTRATION_WINDOW"`
	Extension          time.Duration `yaml:"extension" env:"EXTENSION"`
	ExtensionThreshold int           `yaml:"extension_threshold" env:"EXTENSION_THRESHOLD"`
	SnapshotInterval   time.Duration `yaml:"snapshot_interval" env:"SNAPSHOT_INTERVAL"`
	AnnounceInterval   time.Duration `yaml:"announce_interval" env:"ANNOUNCE_INTERVAL"`
	AnnounceEvery      time.Duration `yaml:"announce_every" env:"ANNOUNCE_EVERY"`

	SnapshotPath string `yaml:"snapshot_path" env:"SNAPSHOT_PATH"`
	LogPath      string `yaml:"log_path" env:"LOG_PATH"`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL"`

	// Seed fixes the draw; zero means a fresh random seed per run.
	Seed int64 `yaml:"seed" env:"SEED"`

	NATSURL           string `yaml:"nats_url" env:"NATS_URL"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix" env:"NATS_SUBJECT_PREFIX"`

	MetricsPath string `yaml:"metrics_path" env:"METRICS_PATH"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		RegistrationWindow: time.Hour,
		Extension:          30 * time.Minute,
		ExtensionThreshold: 5,
		SnapshotInterval:   5 * time.Minute,
		AnnounceInterval:   time.Minute,
		AnnounceEvery:      10 * time.Minute,
		SnapshotPath:       "backup.json",
		LogPath:            "lottery_log.txt",
		LogLevel:           "info",
		NATSSubjectPrefix:  "lottery.events",
	}
}

// Load builds a Config from defaults, an optional YAML file and LOTTERY_* environment variables,
// in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot drive a run.
func (c Config) Validate() error {
	switch {
	case c.RegistrationWindow <= 0:
		return errors.New("registration_window must be positive")
	case c.Extension <= 0:
		return errors.New("extension must be positive")
	case c.ExtensionThreshold <= 0:
		return errors.New("extension_threshold must be positive")
	case c.SnapshotInterval <= 0:
		return errors.New("snapshot_interval must be positive")
	case c.AnnounceInterval <= 0:
		return errors.New("announce_interval must be positive")
	case c.AnnounceEvery <= 0:
		return errors.New("announce_every must be positive")
	case c.SnapshotPath == "":
		return errors.New("snapshot_path is required")
	case c.LogPath == "":
		return errors.New("log_path is required")
	}
	return nil
}
