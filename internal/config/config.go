// =============================================================================
// Batch File Toolkit - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML config file (--config, or batchfile.yaml in . or ./config)
//   3. Environment variables with the BATCHFILE_ prefix
//      (e.g. BATCHFILE_DECODE_POLICY=strict, BATCHFILE_LOG_LEVEL=debug)
//
// All values are validated after loading.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ginjaninja78/batchfile/internal/codec"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Storage StorageConfig `mapstructure:"storage"`
	Export  ExportConfig  `mapstructure:"export"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Log     LogConfig     `mapstructure:"log"`
}

// DecodeConfig controls how malformed lines are handled.
type DecodeConfig struct {
	// Policy is "lenient" (drop bad Transaction lines) or "strict".
	// Default: "lenient"
	Policy string `mapstructure:"policy"`
}

// EditorConfig controls mutating operations.
type EditorConfig struct {
	// RebalanceOnInsert recomputes the Footer after inserting a Transaction.
	// Default: false
	RebalanceOnInsert bool `mapstructure:"rebalance_on_insert"`
}

// StorageConfig controls how batch files are rewritten.
type StorageConfig struct {
	// BackupDir receives a copy of the batch before each rewrite.
	// Empty disables backups.
	BackupDir string `mapstructure:"backup_dir"`

	// TimestampSubdirs stores backups under YYYY/MM/DD.
	TimestampSubdirs bool `mapstructure:"timestamp_subdirs"`

	// BackupRetention removes older backups after each backup. Zero keeps all.
	BackupRetention time.Duration `mapstructure:"backup_retention"`
}

// ExportConfig controls report exports.
type ExportConfig struct {
	// Dir is where exported reports are written.
	// Default: "./export"
	Dir string `mapstructure:"dir"`

	// NameFormat builds export file names; see utils.GenerateOutputFileName.
	// Default: "{name}_{timestamp}"
	NameFormat string `mapstructure:"name_format"`
}

// ScanConfig controls multi-file validation.
type ScanConfig struct {
	// Workers is the number of files checked in parallel.
	// Default: 4
	Workers int `mapstructure:"workers"`

	// Pattern selects files inside scanned directories.
	// Default: "*.txt"
	Pattern string `mapstructure:"pattern"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable console output
}

// DecodePolicy returns the parsed decode policy.
func (c *Config) DecodePolicy() codec.Policy {
	p, _ := codec.ParsePolicy(c.Decode.Policy)
	return p
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from defaults, the file at path and the
// environment.
//
// An empty path searches for batchfile.yaml and tolerates its absence. An
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("batchfile")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BATCHFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{Policy: "lenient"},
		Export: ExportConfig{Dir: "./export", NameFormat: "{name}_{timestamp}"},
		Scan:   ScanConfig{Workers: 4, Pattern: "*.txt"},
		Log:    LogConfig{Level: "info"},
	}
}

// applyDefaults registers the defaults with viper so env overrides apply to
// every key.
func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("decode.policy", d.Decode.Policy)
	v.SetDefault("editor.rebalance_on_insert", d.Editor.RebalanceOnInsert)
	v.SetDefault("storage.backup_dir", d.Storage.BackupDir)
	v.SetDefault("storage.timestamp_subdirs", d.Storage.TimestampSubdirs)
	v.SetDefault("storage.backup_retention", d.Storage.BackupRetention)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.name_format", d.Export.NameFormat)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.pattern", d.Scan.Pattern)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// validate checks values viper cannot check on its own.
func validate(cfg *Config) error {
	if _, err := codec.ParsePolicy(cfg.Decode.Policy); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	if cfg.Storage.BackupRetention < 0 {
		return fmt.Errorf("storage.backup_retention must not be negative")
	}

	if cfg.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}

	if strings.TrimSpace(cfg.Export.NameFormat) == "" {
		return fmt.Errorf("export.name_format must not be empty")
	}

	return nil
}
