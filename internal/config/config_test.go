package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Suppress informational output during tests.
	Testing = true
	code := m.Run()
	Testing = false
	os.Exit(code)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"gd"}, cfg.ScriptExtensions)
	assert.Equal(t, []string{"tscn", "tres", "escn", "godot"}, cfg.SceneExtensions)
	assert.Equal(t, "identifier", cfg.ScrambleMode)
	assert.Equal(t, 5, cfg.ScrambleLength)
	assert.Equal(t, "TR_", cfg.TranslationPrefix)
	assert.True(t, cfg.AbortOnError)
	assert.True(t, cfg.RemoveCasts)
	assert.True(t, cfg.StripComments)
	assert.False(t, cfg.Melt)
	assert.Contains(t, cfg.SkipPaths, ".git*")
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
scramble_mode: hexa
scramble_length: 8
melt: true
strip_comments: false
translation_prefix: LOC_
skip:
  - addons/*
ignore_names:
  - GameState
`
	path := filepath.Join(t.TempDir(), "gdmixer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "hexa", cfg.ScrambleMode)
	assert.Equal(t, 8, cfg.ScrambleLength)
	assert.True(t, cfg.Melt)
	assert.False(t, cfg.StripComments)
	assert.Equal(t, "LOC_", cfg.TranslationPrefix)
	assert.Equal(t, []string{"addons/*"}, cfg.SkipPaths)
	assert.Equal(t, []string{"GameState"}, cfg.IgnoreNames)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, []string{"gd"}, cfg.ScriptExtensions)
	assert.True(t, cfg.RemoveCasts)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GDMIXER_SCRAMBLE_LENGTH", "12")
	t.Setenv("GDMIXER_MELT", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.ScrambleLength)
	assert.True(t, cfg.Melt)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "gdmixer.yaml")
	require.NoError(t, SaveConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().ScrambleLength, cfg.ScrambleLength)
	assert.Equal(t, DefaultConfig().SceneExtensions, cfg.SceneExtensions)
}

func TestTargetDirectoryCleaned(t *testing.T) {
	content := "target_directory: ./out/../dist/\n"
	path := filepath.Join(t.TempDir(), "gdmixer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.TargetDirectory)
}
