package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amdpack/cli/internal/config"
	oerrors "github.com/amdpack/cli/internal/errors"
)

// vetConfig writes content as the config file and runs config vet on it.
func vetConfig(t *testing.T, content string) error {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")

	if content != "" {
		dir := filepath.Join(home, ".amdpack")
		require.NoError(t, os.MkdirAll(dir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	}

	cmd := NewConfigVetCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestNewConfigVetCmd(t *testing.T) {
	cmd := NewConfigVetCmd()

	assert.Equal(t, "vet", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestConfigVet_MissingConfigFile(t *testing.T) {
	err := vetConfig(t, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, ExitNotFound, oerrors.ExitCodeFromError(err))
}

func TestConfigVet_DefaultTemplate(t *testing.T) {
	assert.NoError(t, vetConfig(t, config.DefaultConfigTemplate))
}

func TestConfigVet_UnknownField(t *testing.T) {
	err := vetConfig(t, "registry: example.com\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry")
	assert.Equal(t, ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestConfigVet_InvalidValue(t *testing.T) {
	err := vetConfig(t, "cdn:\n  baseURL: ftp://example.com\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cdn.baseURL")
}

func TestConfigVet_CustomConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	custom := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("nodeModules: /srv/app\n"), 0o600))
	t.Setenv(config.EnvConfig, custom)

	cmd := NewConfigVetCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.NoError(t, cmd.Execute())
}
