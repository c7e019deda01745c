package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctagd.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadServerConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
name = "tagger"
max_payload_bytes = 1048576
metrics_addr = " 127.0.0.1:9464 "
lexical_fallback = false
disabled_languages = ["Python", " ", "Ruby "]
`)
	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "tagger", cfg.Name)
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint64(128*1024), cfg.MaxLineBytes)
	assert.Equal(t, uint64(1048576), cfg.MaxPayloadBytes)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
	assert.False(t, cfg.LexicalFallback)
	assert.Equal(t, []string{"Python", "Ruby"}, cfg.DisabledLanguages)

	limits := cfg.Limits()
	assert.Equal(t, uint64(1048576), limits.MaxPayloadBytes)
}

func TestLoadServerConfigTemplateIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctagd.toml")
	require.NoError(t, WriteTemplate(path, false))
	require.Error(t, WriteTemplate(path, false))
	require.NoError(t, WriteTemplate(path, true))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), withEmptyList(cfg))
}

func withEmptyList(cfg ServerConfig) ServerConfig {
	if len(cfg.DisabledLanguages) == 0 {
		cfg.DisabledLanguages = nil
	}
	return cfg
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty name":       `name = " "`,
		"negative payload": `max_payload_bytes = -1`,
		"tiny line":        `max_line_bytes = 10`,
		"bad level":        `log_level = "shouty"`,
		"unknown key":      `nmae = "typo"`,
	}
	for label, body := range cases {
		_, err := LoadServerConfig(writeConfig(t, body))
		assert.ErrorIs(t, err, ErrInvalidConfig, label)
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
