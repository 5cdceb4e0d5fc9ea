package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REPAIRFLOW_CHECKPOINT_FORMAT
const EnvPrefix = "REPAIRFLOW"

// Load reads configuration from configPath (optional) and the environment.
// An empty configPath uses defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	return LoadFs(nil, configPath)
}

// LoadFs is Load reading the config file from fs; nil means the OS filesystem
func LoadFs(fs afero.Fs, configPath string) (*Config, error) {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("checkpoint.granularity", "every_step")
	v.SetDefault("checkpoint.format", "json")
	v.SetDefault("checkpoint.backend", "file")
	v.SetDefault("checkpoint.dir", ".repairflow/checkpoints")
	v.SetDefault("checkpoint.database", ".repairflow/checkpoints.db")

	v.SetDefault("policy.recovery_limit", 1000)

	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")

	v.SetDefault("servicing.poll_interval", 30*time.Minute)
	v.SetDefault("servicing.technicians", []string{"alice", "bob"})

	v.SetDefault("metrics.textfile", "")
	v.SetDefault("journal.path", "")
}
