package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Info("song uploaded", String("songId", "abc"), Float64("duration", 12.5))
	Error("append failed", ErrorField(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "song uploaded", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["songId"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestInitWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tunebox.log")
	t.Cleanup(func() { SetLogger(nil) })

	require.NoError(t, Init(Config{Level: "debug", OutputPath: path}))
	Info("hello")
	Sync()

	_, err := os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestInitWithCustomConsole(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { SetLogger(nil) })

	require.NoError(t, Init(Config{Level: "warn", Console: &buf}))
	Info("hidden")
	Warn("Playback error", String("songId", "s1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"Playback error"`)
	assert.Contains(t, out, `"songId":"s1"`)
}
