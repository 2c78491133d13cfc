package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/pulsar/pkg/errors"
)

func TestTestLoggerCapturesFields(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorSchema)

	require.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("debug message"))
	assert.True(t, logger.ContainsField("key1", "value1"))
	assert.True(t, logger.ContainsField("number", 42.0)) // JSON numbers decode as float64
	assert.True(t, logger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, logger.ContainsField(ErrorCodeKey, ErrorSchema))
}

func TestTestLoggerWithAndLevel(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)
	child := logger.With(ComponentKey, "montecarlo")

	child.Info("dropped")
	child.Warn("kept", ClassKey, 1)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "montecarlo", entries[0][ComponentKey])
	assert.Equal(t, "WARN", entries[0]["level"])

	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))

	logger.Clear()
	assert.False(t, logger.ContainsMessage("kept"))
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ComponentKey, "dataset").Info("Dataset loaded", SamplesKey, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Dataset loaded", entry["message"])
	assert.Equal(t, "dataset", entry[ComponentKey])
	assert.Equal(t, 4.0, entry[SamplesKey])
	assert.Equal(t, "info", entry["level"])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestZerologLoggerErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("Sampling failed", errors.NewSingularDispersionError(0, "empty partition"), OperationKey, OperationSample)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["error"], "class 0")
	detail, ok := entry["detail"].(map[string]interface{})
	require.True(t, ok, "structured error detail expected, got %v", entry)
	assert.Equal(t, "SingularDispersionError", detail["type"])
	assert.Equal(t, OperationSample, entry[OperationKey])
}

func TestSetupZerologRoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer func() {
		SetLogger(prev)
		errors.SetZerologWarnFunc(nil)
	}()

	var buf bytes.Buffer
	SetupZerolog(&buf, LevelInfo)
	errors.Warn(errors.NewConstantFeatureWarning("Class", 8, 1))

	assert.Contains(t, buf.String(), "ConstantFeatureWarning")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestSlogLoggerStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(&buf, LevelInfo)

	logger.Error("Load failed", errors.NewSchemaError("Loader.Load", 2, 9, 10), SourceKey, "pulsar.csv")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "Load failed", entry["message"])
	assert.Equal(t, "pulsar.csv", entry[SourceKey])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
