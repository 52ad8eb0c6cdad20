package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestValidateFileDefaults(t *testing.T) {
	conf := &Conf{Output: "file", Path: t.TempDir()}
	require.NoError(t, conf.Validate())

	assert.Equal(t, 100, conf.RotateSize)
	assert.Equal(t, 10, conf.RotateNum)
	assert.Equal(t, 7, conf.KeepDays)
	assert.NotEmpty(t, conf.Filename)
}

func TestValidateFileRequiresPath(t *testing.T) {
	conf := &Conf{Output: "file"}
	assert.Error(t, conf.Validate())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" Warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNewFileOutput(t *testing.T) {
	dir := t.TempDir()
	conf := &Conf{Output: "file", Path: dir, Filename: "test.log", Level: "DEBUG"}

	l, err := New(conf)
	require.NoError(t, err)
	l.Info("written")
	Sync()

	_, err = os.Stat(filepath.Join(dir, "test.log"))
	assert.NoError(t, err)
}

func TestGlobalFallsBackToStdout(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))
	assert.NotNil(t, L())
	Infow("global logger ready", "component", "test")
}
