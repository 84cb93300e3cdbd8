package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZapLoggerForwardsToSink(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(InfoLevel, &buf))

	zl.Info("gp fit finished",
		zap.String("kernel", "rbf"),
		zap.Int("observations", 12),
		zap.Bool("converged", true),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "gp fit finished", entry["message"])
	assert.Equal(t, "rbf", entry["kernel"])
	assert.Equal(t, float64(12), entry["observations"])
	assert.Equal(t, true, entry["converged"])
	assert.NotEmpty(t, entry["caller"])
}

func TestZapLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(WarnLevel, &buf))

	zl.Debug("dropped")
	zl.Info("dropped too")
	assert.Zero(t, buf.Len())

	zl.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

// Fields attached through With must ride along on every later entry.
func TestZapLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(InfoLevel, &buf)).With(zap.String("component", "surrogate"))

	zl.Info("refit")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "surrogate", entry["component"])
	assert.Equal(t, "refit", entry["message"])
}
