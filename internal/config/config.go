package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config collects every externally tunable knob of the pipeline. All paths
// are relative to the working directory by default and injectable so tests
// can point the whole pipeline at a temp directory.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type PathsConfig struct {
	DataDir    string `yaml:"data_dir"`
	ImagesDir  string `yaml:"images_dir"`
	SourceFile string `yaml:"source_file"`
	ReportFile string `yaml:"report_file"`
}

type LoggingConfig struct {
	Format string `yaml:"format"` // "json" | "text"
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the stock configuration: database/vendas.db, data/ for
// spreadsheets, images/ for chart renders.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path: filepath.Join("database", "vendas.db"),
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ImagesDir:  "images",
			SourceFile: "vendas.xlsx",
			ReportFile: "dashboard.xlsx",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
	}
}

// Load reads an optional YAML file on top of the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.Database.Path = getenvDefault("VENDAS_DB_PATH", cfg.Database.Path)
	cfg.Paths.DataDir = getenvDefault("VENDAS_DATA_DIR", cfg.Paths.DataDir)
	cfg.Paths.ImagesDir = getenvDefault("VENDAS_IMAGES_DIR", cfg.Paths.ImagesDir)
	cfg.Paths.SourceFile = getenvDefault("VENDAS_SOURCE_FILE", cfg.Paths.SourceFile)
	cfg.Paths.ReportFile = getenvDefault("VENDAS_REPORT_FILE", cfg.Paths.ReportFile)
	cfg.Logging.Format = getenvDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.Level = getenvDefault("LOG_LEVEL", cfg.Logging.Level)
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true"
	}
	cfg.Metrics.Address = getenvDefault("METRICS_ADDRESS", cfg.Metrics.Address)
}

// DefaultSourcePath resolves the spreadsheet path used when the caller does
// not supply one. Sample data is only ever generated at this location.
func (c Config) DefaultSourcePath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.SourceFile)
}

// ReportPath resolves the dashboard workbook location inside the data dir.
func (c Config) ReportPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.ReportFile)
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
