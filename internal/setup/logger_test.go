package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailv/reactive-sandbox/internal/log"
)

func TestLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sandbox.log")

	logger, closeFn, err := Logger(false, file, nil)
	require.NoError(t, err)
	log.WithPrefix(logger, "runner").Info("scenario finished", "scenario", "zip")
	logger.Debug("not written")
	closeFn()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"runner: scenario finished"`)
	assert.Contains(t, string(b), `"scenario":"zip"`)
	assert.NotContains(t, string(b), "not written")
}

func TestLogger_BadFile(t *testing.T) {
	_, _, err := Logger(false, filepath.Join(t.TempDir(), "missing", "sandbox.log"), nil)
	require.Error(t, err)
}
