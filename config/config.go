package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Notifier NotifierConfig `yaml:"notifier"`
}

// DatabaseConfig holds the database connection configuration. The DSN selects
// the driver: a postgres URL or key/value DSN opens PostgreSQL, anything else
// is treated as a SQLite file path.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// StorageConfig holds the snapshot-file storage configuration. An empty
// file_dir disables the file backend entirely; the database backend is then
// the only storage strategy available.
type StorageConfig struct {
	FileDir          string        `yaml:"file_dir"`
	FileName         string        `yaml:"file_name"`
	AutoSaveSeconds  int           `yaml:"auto_save_seconds"`
	AutoSaveInterval time.Duration `yaml:"-"` // Ignored by YAML parser
}

// ArchiveConfig holds the auto-archive sweep configuration.
type ArchiveConfig struct {
	SweepIntervalSeconds int           `yaml:"sweep_interval_seconds"`
	SweepInterval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// NotifierConfig holds the configuration for the event notifier worker pool.
type NotifierConfig struct {
	Workers int `yaml:"workers"`
	Buffer  int `yaml:"buffer"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "./ticket_data.db"
	}

	if cfg.Storage.FileName == "" {
		cfg.Storage.FileName = "trouble_ticket_data.json"
	}
	if cfg.Storage.AutoSaveSeconds <= 0 {
		cfg.Storage.AutoSaveSeconds = 30
	}
	cfg.Storage.AutoSaveInterval = time.Duration(cfg.Storage.AutoSaveSeconds) * time.Second

	if cfg.Archive.SweepIntervalSeconds <= 0 {
		cfg.Archive.SweepIntervalSeconds = 3600
	}
	cfg.Archive.SweepInterval = time.Duration(cfg.Archive.SweepIntervalSeconds) * time.Second

	if cfg.Notifier.Workers <= 0 {
		log.Printf("notifier.workers is not set or invalid; defaulting to 1")
		cfg.Notifier.Workers = 1
	}
	if cfg.Notifier.Buffer <= 0 {
		cfg.Notifier.Buffer = 64
	}
}
