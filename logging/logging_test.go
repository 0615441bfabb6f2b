package logging_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/booking-timeline/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zap.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, zap.ErrorLevel, logging.ParseLevel("error"))
	assert.Equal(t, zap.InfoLevel, logging.ParseLevel("verbose"))
}

func TestNew_RespectsLevel(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "warn", Env: "development"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestNew_ProductionWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.New(logging.Config{
		Env:        "production",
		OutputFile: filepath.Join(dir, "app.log"),
	})
	require.NoError(t, err)

	logger.Info("hello")
	assert.NoError(t, logger.Sync())
	assert.FileExists(t, filepath.Join(dir, "app.log"))
}
