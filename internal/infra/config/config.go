package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Policy     PolicyConfig     `mapstructure:"policy"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Servicing  ServicingConfig  `mapstructure:"servicing"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Journal    JournalConfig    `mapstructure:"journal"`
}

// CheckpointConfig selects how and where checkpoints are kept
type CheckpointConfig struct {
	Granularity string `mapstructure:"granularity"` // start_end or every_step
	Format      string `mapstructure:"format"`      // json or yaml
	Backend     string `mapstructure:"backend"`     // file or sqlite
	Dir         string `mapstructure:"dir"`
	Database    string `mapstructure:"database"`
}

// PolicyConfig tunes the reference policy
type PolicyConfig struct {
	RecoveryLimit uint64 `mapstructure:"recovery_limit"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ServicingConfig holds shop-floor settings
type ServicingConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Technicians  []string      `mapstructure:"technicians"`
}

// MetricsConfig holds metrics export settings
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// JournalConfig names the transition journal; empty disables it
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Checkpoint.Granularity {
	case "start_end", "every_step":
	default:
		return fmt.Errorf("checkpoint.granularity must be start_end or every_step, got %q", c.Checkpoint.Granularity)
	}

	switch c.Checkpoint.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("checkpoint.format must be json or yaml, got %q", c.Checkpoint.Format)
	}

	switch c.Checkpoint.Backend {
	case "file":
		if c.Checkpoint.Dir == "" {
			return fmt.Errorf("checkpoint.dir is required for the file backend")
		}
	case "sqlite":
		if c.Checkpoint.Database == "" {
			return fmt.Errorf("checkpoint.database is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("checkpoint.backend must be file or sqlite, got %q", c.Checkpoint.Backend)
	}

	if c.Policy.RecoveryLimit == 0 {
		return fmt.Errorf("policy.recovery_limit must be positive")
	}

	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}

	if c.Servicing.PollInterval <= 0 {
		return fmt.Errorf("servicing.poll_interval must be positive")
	}
	if len(c.Servicing.Technicians) == 0 {
		return fmt.Errorf("servicing.technicians must name at least one technician")
	}

	return nil
}
