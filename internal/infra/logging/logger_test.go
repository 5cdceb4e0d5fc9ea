package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"fatal":   zapcore.ErrorLevel,
		"":        zapcore.WarnLevel,
		"loud":    zapcore.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), "level %q", in)
	}
}

func TestNewLogger_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "repairflow.log")

	logger, err := NewLogger(Config{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("order reached terminal state", zap.Uint64("order_number", 4), zap.String("state", "Finished"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "order reached terminal state", entry["msg"])
	assert.Equal(t, "Finished", entry["state"])
	assert.EqualValues(t, 4, entry["order_number"])
	assert.Contains(t, entry, "timestamp")
}
