package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepLogger(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })
}

func TestSetup_Console(t *testing.T) {
	keepLogger(t)
	t.Setenv(LogConfigEnv, "")

	require.NoError(t, Setup("debug", ""))
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())

	require.NoError(t, Setup("", ""))
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	assert.Error(t, Setup("loud", ""))
}

func TestSetup_ZeroconfigFile(t *testing.T) {
	keepLogger(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "log.yaml")
	require.NoError(t, os.WriteFile(good, []byte("writers:\n  - type: stderr\n    format: json\n"), 0644))
	require.NoError(t, Setup("info", good))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("writers: [unterminated"), 0644))
	assert.Error(t, Setup("info", bad))

	t.Setenv(LogConfigEnv, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, Setup("info", ""))
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, zerolog.WarnLevel)

	logger.Info().Msg("hidden")
	logger.Warn().Str("config", "pathPrefix").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "pathPrefix")
}
