package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/actctl/internal/config"
)

func TestSetupFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actctl.log")
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	logger, err := Setup(config.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Info("api request", "path", "/activities")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/activities"`)
}

func TestSetupRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{name: "level", cfg: config.LogConfig{Level: "verbose", Format: "text", Output: "stderr"}},
		{name: "format", cfg: config.LogConfig{Level: "info", Format: "xml", Output: "stderr"}},
		{name: "output", cfg: config.LogConfig{Level: "info", Format: "text", Output: "syslog"}},
		{name: "file without path", cfg: config.LogConfig{Level: "info", Format: "text", Output: "file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Setup(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestHertzSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewHertzSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Warnf("dial %s failed", "127.0.0.1:3000")
	adapter.Debug("conn", "reused")

	out := buf.String()
	assert.Contains(t, out, "dial 127.0.0.1:3000 failed")
	assert.Contains(t, out, "component=hertz")
	assert.Contains(t, out, "connreused")
}
