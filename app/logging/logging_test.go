package logging

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirphl/panel-registry/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutputStdout(t *testing.T) {
	out, err := NewOutput(config.LoggingConfig{Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, out.Writer)
	assert.NoError(t, out.Close())
}

func TestNewOutputRejectsUnknown(t *testing.T) {
	_, err := NewOutput(config.LoggingConfig{Output: "syslog"})
	assert.Error(t, err)

	_, err = NewOutput(config.LoggingConfig{Output: "file"})
	assert.Error(t, err)
}

func TestSetupWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	out, err := Setup(config.LoggingConfig{Output: "file", FilePath: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		_ = out.Close()
	})

	log.Printf("panel registry log line")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "panel registry log line")
}
