package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 30*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "python3", cfg.Python)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("CODEMEND_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("CODEMEND_PYTHON", "/usr/local/bin/python3.12")
	t.Setenv("CODEMEND_REDIS_ADDR", "localhost:6379")
	t.Setenv("CODEMEND_REDIS_DB", "2")
	t.Setenv("CODEMEND_MODEL_TIMEOUT", "90s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Model)
	assert.Equal(t, "/usr/local/bin/python3.12", cfg.Python)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.ModelTimeout)
}

func TestLoad_YAMLFileWithEnvPrecedence(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("CODEMEND_MODEL", "env-model")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api_key: gsk-file\nmodel: file-model\npython: python3.11\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env wins over the file; file wins over defaults.
	assert.Equal(t, "gsk-env", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, "python3.11", cfg.Python)
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model)
}
