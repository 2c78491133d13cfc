// Package config reads runtime settings from the environment and an optional
// .env file and turns them into configured loaders, resampler options and
// loggers.
package config

import (
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/YuminosukeSato/pulsar/dataset"
	"github.com/YuminosukeSato/pulsar/montecarlo"
	"github.com/YuminosukeSato/pulsar/pkg/errors"
	"github.com/YuminosukeSato/pulsar/pkg/log"
)

// Environment variable names.
const (
	EnvBasePath        = "PULSAR_BASE_PATH"
	EnvDataFile        = "PULSAR_DATA_FILE"
	EnvSeed            = "PULSAR_SEED"
	EnvSamplesPerClass = "PULSAR_SAMPLES_PER_CLASS"
	EnvLogLevel        = "PULSAR_LOG_LEVEL"
	EnvLogFormat       = "PULSAR_LOG_FORMAT"
)

// Defaults applied when a variable is unset.
const (
	DefaultDataFile        = "pulsar_data"
	DefaultSamplesPerClass = 1000
	DefaultLogFormat       = LogFormatZerolog
)

// Supported values of PULSAR_LOG_FORMAT.
const (
	LogFormatZerolog = "zerolog"
	LogFormatSlog    = "slog"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Resampler ResamplerConfig
	Logging   LoggingConfig
}

// DataConfig holds dataset location settings
type DataConfig struct {
	BasePath string
	File     string
}

// ResamplerConfig holds Monte Carlo settings
type ResamplerConfig struct {
	Seed            uint64
	SamplesPerClass int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  log.Level
	Format string
}

// Load reads configuration from environment variables. Values from the given
// .env files (or ./.env when none is given, if present) fill in variables that
// are not already set in the process environment.
func Load(envFiles ...string) (*Config, error) {
	fileEnv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read .env file")
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileEnv[key])
	}

	cfg := &Config{
		Data: DataConfig{
			BasePath: lookup(EnvBasePath),
			File:     orDefault(lookup(EnvDataFile), DefaultDataFile),
		},
		Resampler: ResamplerConfig{
			Seed:            montecarlo.DefaultSeed,
			SamplesPerClass: DefaultSamplesPerClass,
		},
		Logging: LoggingConfig{
			Level:  log.LevelInfo,
			Format: DefaultLogFormat,
		},
	}

	if v := lookup(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.NewValidationError(EnvSeed, "must be a non-negative integer", v)
		}
		cfg.Resampler.Seed = seed
	}

	if v := lookup(EnvSamplesPerClass); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, errors.NewValidationError(EnvSamplesPerClass, "must be a positive integer", v)
		}
		cfg.Resampler.SamplesPerClass = n
	}

	if v := lookup(EnvLogLevel); v != "" {
		level, ok := log.ParseLevel(v)
		if !ok {
			return nil, errors.NewValidationError(EnvLogLevel, "must be one of debug, info, warn, error", v)
		}
		cfg.Logging.Level = level
	}

	if v := lookup(EnvLogFormat); v != "" {
		format := strings.ToLower(v)
		if format != LogFormatZerolog && format != LogFormatSlog {
			return nil, errors.NewValidationError(EnvLogFormat, "must be zerolog or slog", v)
		}
		cfg.Logging.Format = format
	}

	return cfg, nil
}

// NewLoader returns a dataset loader rooted at the configured base path.
func (c *Config) NewLoader(opts ...dataset.LoaderOption) *dataset.Loader {
	return dataset.NewLoader(c.Data.BasePath, opts...)
}

// LoadDataset loads the configured data file.
func (c *Config) LoadDataset(opts ...dataset.LoaderOption) (*dataset.Dataset, error) {
	return c.NewLoader(opts...).Load(c.Data.File)
}

// ResamplerOptions returns the resampler options implied by the configuration.
// Extra options are applied after the configured ones.
func (c *Config) ResamplerOptions(extra ...montecarlo.Option) []montecarlo.Option {
	return append([]montecarlo.Option{montecarlo.WithSeed(c.Resampler.Seed)}, extra...)
}

// SetupLogging installs the configured backend as the process-wide logger.
func (c *Config) SetupLogging(w io.Writer) log.Logger {
	if c.Logging.Format == LogFormatSlog {
		return log.SetupSlog(w, c.Logging.Level)
	}
	return log.SetupZerolog(w, c.Logging.Level)
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		env, err := godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return env, err
	}
	return godotenv.Read(files...)
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
