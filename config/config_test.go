package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/pulsar/montecarlo"
	"github.com/YuminosukeSato/pulsar/pkg/errors"
	"github.com/YuminosukeSato/pulsar/pkg/log"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBasePath, EnvDataFile, EnvSeed, EnvSamplesPerClass, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeEnvFile(t, "# no overrides\n"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Data.BasePath)
	assert.Equal(t, DefaultDataFile, cfg.Data.File)
	assert.Equal(t, montecarlo.DefaultSeed, cfg.Resampler.Seed)
	assert.Equal(t, DefaultSamplesPerClass, cfg.Resampler.SamplesPerClass)
	assert.Equal(t, log.LevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatZerolog, cfg.Logging.Format)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, strings.Join([]string{
		"PULSAR_BASE_PATH=/data/htru2",
		"PULSAR_SEED=42",
		"PULSAR_SAMPLES_PER_CLASS=250",
		"PULSAR_LOG_LEVEL=debug",
		"PULSAR_LOG_FORMAT=slog",
	}, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/htru2", cfg.Data.BasePath)
	assert.Equal(t, uint64(42), cfg.Resampler.Seed)
	assert.Equal(t, 250, cfg.Resampler.SamplesPerClass)
	assert.Equal(t, log.LevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatSlog, cfg.Logging.Format)

	// .env は環境変数を書き換えない
	_, set := os.LookupEnv(EnvSeed)
	assert.False(t, set)
}

func TestProcessEnvOverridesEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PULSAR_SEED=42\nPULSAR_DATA_FILE=from_file\n")
	t.Setenv(EnvSeed, "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Resampler.Seed)
	assert.Equal(t, "from_file", cfg.Data.File)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvSeed, "-1"},
		{EnvSeed, "abc"},
		{EnvSamplesPerClass, "0"},
		{EnvSamplesPerClass, "many"},
		{EnvLogLevel, "verbose"},
		{EnvLogFormat, "logrus"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(writeEnvFile(t, ""))
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.key, valErr.ParamName)
		})
	}
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestConfigWiring(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	csv := "1,2,3,4,5,6,7,8,0\n2,3,4,5,6,7,8,9,0\n3,1,2,3,4,5,6,9,1\n5,5,1,2,3,4,5,6,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pulsar_data.csv"), []byte(csv), 0o600))
	t.Setenv(EnvBasePath, dir)
	t.Setenv(EnvSeed, "5")

	cfg, err := Load(writeEnvFile(t, ""))
	require.NoError(t, err)

	logger, _ := log.NewTestLogger(log.LevelDebug)
	ds, err := cfg.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())

	r := montecarlo.NewResampler(cfg.ResamplerOptions(montecarlo.WithLogger(logger))...)
	assert.Equal(t, uint64(5), r.Seed())
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLogger(log.GetLogger())

	for _, format := range []string{LogFormatZerolog, LogFormatSlog} {
		t.Run(format, func(t *testing.T) {
			cfg := &Config{Logging: LoggingConfig{Level: log.LevelInfo, Format: format}}
			var buf bytes.Buffer
			logger := cfg.SetupLogging(&buf)

			assert.Same(t, logger, log.GetLogger())
			logger.Debug("hidden")
			logger.Info("visible", log.OperationKey, log.OperationLoad)
			assert.NotContains(t, buf.String(), "hidden")
			assert.Contains(t, buf.String(), "visible")
		})
	}
}
