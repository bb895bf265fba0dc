package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "UIFORGE_MODEL",
		"UIFORGE_DESIGN_TOKEN", "FIGMA_TOKEN", "UIFORGE_DESIGN_BASE_URL",
		"UIFORGE_OUTPUT_DIR",
	} {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "generated", cfg.Output.Dir)
	assert.Contains(t, cfg.AllowedElements, "button")
	assert.NotContains(t, cfg.AllowedElements, "icon")
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "uiforge.yaml")
	body := "llm:\n  api_key: from-file\noutput:\n  dir: out\nallowed_elements: [button]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, []string{"button"}, cfg.AllowedElements)
}

func TestLoad_BrokenFileIsError(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "uiforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "env-key")

		cfg := Default()
		cfg.LLM.APIKey = "file-key"
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.LLM.APIKey)
	})

	t.Run("GOOGLE_API_KEY only fills an empty key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := Default()
		cfg.LLM.APIKey = "file-key"
		cfg.applyEnvOverrides()
		assert.Equal(t, "file-key", cfg.LLM.APIKey)

		cfg = Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "google-key", cfg.LLM.APIKey)
	})

	t.Run("design token fallback chain", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FIGMA_TOKEN", "figma-token")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "figma-token", cfg.Design.Token)

		t.Setenv("UIFORGE_DESIGN_TOKEN", "own-token")
		cfg = Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "own-token", cfg.Design.Token)
	})
}

func TestValidateCredentials(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	err := cfg.ValidateCredentials()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	cfg.LLM.APIKey = "key"
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestWriteStarter(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultFileName)

	require.NoError(t, WriteStarter(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.Output.Dir)
	assert.Len(t, cfg.AllowedElements, 8)

	// Existing file is left alone.
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: keep\n"), 0644))
	require.NoError(t, WriteStarter(path))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", cfg.Output.Dir)
}
