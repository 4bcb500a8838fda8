package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morsechat.log")
	log, err := New(config.Log{Level: "warn", File: path})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", zap.Int("channel", 7))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"channel":7`)
}

func TestNew_Levels(t *testing.T) {
	log, err := New(config.Log{Level: "debug", Development: true, File: filepath.Join(t.TempDir(), "dev.log")})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = New(config.Log{File: filepath.Join(t.TempDir(), "prod.log")})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))

	_, err = New(config.Log{Level: "chatty"})
	assert.Error(t, err)
}
