// Package config loads the ETL configuration from layered sources:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfigPaths are searched in order; the first file found is used.
var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Config is the full ETL configuration.
type Config struct {
	Input   InputConfig   `koanf:"input"`
	Output  OutputConfig  `koanf:"output"`
	AWS     AWSConfig     `koanf:"aws"`
	ETL     ETLConfig     `koanf:"etl"`
	Logging LoggingConfig `koanf:"logging"`
}

// InputConfig locates the raw datasets: a local directory or an
// s3://bucket/prefix URI holding song_data/ and log_data/ trees.
type InputConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// OutputConfig locates the output root the five parquet datasets are
// written under.
type OutputConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// AWSConfig supplies object-storage access. Keys are optional; when absent
// the default credential chain applies.
type AWSConfig struct {
	Region          string `koanf:"region" validate:"required"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// ETLConfig tunes transform behavior. JoinEpsilon widens the fact-join
// duration comparison; zero keeps the original exact float equality.
type ETLConfig struct {
	JoinEpsilon float64 `koanf:"join_epsilon" validate:"gte=0"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Path: "data"},
		Output: OutputConfig{Path: "out"},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		ETL: ETLConfig{
			JoinEpsilon: 0, // original behavior: exact float equality
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings routes environment variables to config paths. Unmapped
// variables are ignored so random environment does not pollute the config.
var envMappings = map[string]string{
	"INPUT_PATH":            "input.path",
	"OUTPUT_PATH":           "output.path",
	"AWS_REGION":            "aws.region",
	"AWS_ACCESS_KEY_ID":     "aws.access_key_id",
	"AWS_SECRET_ACCESS_KEY": "aws.secret_access_key",
	"JOIN_EPSILON":          "etl.join_epsilon",
	"LOG_LEVEL":             "logging.level",
	"LOG_FORMAT":            "logging.format",
}

// Load builds the configuration with precedence ENV > file > defaults and
// validates it. A missing or invalid configuration is fatal at startup,
// before any data access.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", func(key string) string {
		return envMappings[key]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
