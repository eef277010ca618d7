// Package config provides viper-loaded configuration for the hiergeom
// demo CLI (cmd/hiergeomdemo): which layer ids the processor runs over,
// how many workers evaluate cell contexts concurrently, and how
// telemetry is exposed.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidScopeLayer     = errors.New("scope layer id must be positive")
	ErrInvalidIntruderLayer  = errors.New("intruder layer id must be positive")
	ErrInvalidOutputLayer    = errors.New("output layer id must be positive")
	ErrScopeEqualsIntruder   = errors.New("scope and intruder layer ids must differ")
	ErrScopeEqualsOutput     = errors.New("scope and output layer ids must differ")
	ErrIntruderEqualsOutput  = errors.New("intruder and output layer ids must differ")
	ErrInvalidWorkers        = errors.New("workers must be non-negative")
	ErrInvalidMetricsAddress = errors.New("metrics listen address must not be empty when metrics are enabled")
	ErrSchemaViolation       = errors.New("config document violates schema")
)

// Config holds all configuration for the hiergeom demo CLI.
type Config struct {
	Layers    LayersConfig    `mapstructure:"layers"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// LayersConfig names the three layer ids the processor is parameterized
// by (spec.md §6: "Construct a processor with (layout, top_cell,
// local_operation, scope_layer_id, intruder_layer_id, output_layer_id)").
type LayersConfig struct {
	Scope    int `mapstructure:"scope"`
	Intruder int `mapstructure:"intruder"`
	Output   int `mapstructure:"output"`
}

// ProcessorConfig tunes pkg/processor.Config.
type ProcessorConfig struct {
	Workers int `mapstructure:"workers"`
}

// TelemetryConfig controls pkg/telemetry provider construction.
type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	Environment    string `mapstructure:"environment"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file and environment variables,
// falling back to defaults when configPath is empty and no config file
// is discoverable on the search path.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)
	// Environment values arrive as strings; cast them to their default's
	// type so AllSettings yields schema-valid JSON types below.
	viperCfg.SetTypeByDefaultValue(true)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("hiergeom")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/hiergeom")
	}

	viperCfg.SetEnvPrefix("HIERGEOM")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	docJSON, err := json.Marshal(viperCfg.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config document: %w", err)
	}

	if err := ValidateSchema(docJSON); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("layers.scope", DefaultScopeLayer)
	viperCfg.SetDefault("layers.intruder", DefaultIntruderLayer)
	viperCfg.SetDefault("layers.output", DefaultOutputLayer)

	viperCfg.SetDefault("processor.workers", DefaultWorkers)

	viperCfg.SetDefault("telemetry.service_name", DefaultServiceName)
	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
	viperCfg.SetDefault("telemetry.metrics_enabled", DefaultMetricsEnabled)
	viperCfg.SetDefault("telemetry.metrics_address", DefaultMetricsAddress)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)
}

func validateConfig(cfg *Config) error {
	if cfg.Layers.Scope <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScopeLayer, cfg.Layers.Scope)
	}

	if cfg.Layers.Intruder <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIntruderLayer, cfg.Layers.Intruder)
	}

	if cfg.Layers.Output <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOutputLayer, cfg.Layers.Output)
	}

	if cfg.Layers.Scope == cfg.Layers.Intruder {
		return fmt.Errorf("%w: %d", ErrScopeEqualsIntruder, cfg.Layers.Scope)
	}

	if cfg.Layers.Scope == cfg.Layers.Output {
		return fmt.Errorf("%w: %d", ErrScopeEqualsOutput, cfg.Layers.Scope)
	}

	if cfg.Layers.Intruder == cfg.Layers.Output {
		return fmt.Errorf("%w: %d", ErrIntruderEqualsOutput, cfg.Layers.Intruder)
	}

	if cfg.Processor.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Processor.Workers)
	}

	if cfg.Telemetry.MetricsEnabled && cfg.Telemetry.MetricsAddress == "" {
		return ErrInvalidMetricsAddress
	}

	return nil
}
