package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestDefaultLoggerIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Debug("probe", zap.Int("entity", 1))
		Sugar.Infof("tick %d", 1)
	})
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movement.log")

	require.NoError(t, InitWithFileConfig("debug", FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1}, false))
	t.Cleanup(func() {
		_ = InitWithFileConfig("info", FileConfig{}, false)
	})

	Named("state").Info("transition", zap.String("from", "standing"), zap.String("to", "moving"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"transition"`)
	assert.Contains(t, string(data), `"logger":"state"`)
}
