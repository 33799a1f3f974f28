package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv keeps the host environment out of the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRANSLATE_PROJECT_ID", "TRANSLATE_SOURCE_LANGUAGE", "TRANSLATE_TARGET_LANGUAGE",
		"TRANSLATE_PROVIDER", "TRANSLATE_CONCURRENCY", "TRANSLATE_RETRIES", "TRANSLATE_DROP_TRAILING",
		"TRANSLATE_LOCATION", "GOOGLE_TRANSLATE_URL", "GOOGLE_ACCESS_TOKEN", "GOOGLE_TIMEOUT",
		"LLM_API_KEY", "LLM_API_URL", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_TIMEOUT",
		"TRANSLATE_CACHE_DB", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATE_PROJECT_ID", "env-project")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "env-project", cfg.Translate.ProjectID)
	assert.Equal(t, "en-US", cfg.Translate.SourceLanguage)
	assert.Equal(t, "fr", cfg.Translate.TargetLanguage)
	assert.Equal(t, ProviderGoogle, cfg.Translate.Provider)
	assert.Equal(t, 1, cfg.Translate.Concurrency)
	assert.Equal(t, 2, cfg.Translate.Retries)
	assert.False(t, cfg.Translate.DropTrailing)
	assert.Equal(t, "global", cfg.Google.Location)
	assert.False(t, cfg.Cache.Enabled())
}

func TestNewFromEnv_MissingProjectID(t *testing.T) {
	clearEnv(t)

	_, err := NewFromEnv()
	assert.ErrorIs(t, err, ErrMissingProjectID)
}

func TestNewFromEnv_OptionOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATE_PROJECT_ID", "env-project")
	t.Setenv("TRANSLATE_TARGET_LANGUAGE", "de")

	cfg, err := NewFromEnv(func(c *Config) {
		c.Translate.ProjectID = "flag-project"
	})
	require.NoError(t, err)

	assert.Equal(t, "flag-project", cfg.Translate.ProjectID)
	assert.Equal(t, "de", cfg.Translate.TargetLanguage)
}

func TestNewFromEnv_TypedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATE_PROJECT_ID", "p")
	t.Setenv("TRANSLATE_CONCURRENCY", "4")
	t.Setenv("TRANSLATE_RETRIES", "not-a-number")
	t.Setenv("TRANSLATE_DROP_TRAILING", "true")
	t.Setenv("LLM_TEMPERATURE", "0.9")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Translate.Concurrency)
	assert.Equal(t, 2, cfg.Translate.Retries, "unparsable value keeps the default")
	assert.True(t, cfg.Translate.DropTrailing)
	assert.InDelta(t, 0.9, cfg.LLM.Temperature, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid google", mutate: func(c *Config) {}},
		{name: "openai needs key", mutate: func(c *Config) { c.Translate.Provider = ProviderOpenAI }, wantErr: "LLM_API_KEY"},
		{name: "openai ok without project", mutate: func(c *Config) {
			c.Translate.Provider = ProviderOpenAI
			c.Translate.ProjectID = ""
			c.LLM.APIKey = "k"
		}},
		{name: "unknown provider", mutate: func(c *Config) { c.Translate.Provider = "deepl" }, wantErr: "unknown provider"},
		{name: "bad source", mutate: func(c *Config) { c.Translate.SourceLanguage = "not a tag" }, wantErr: "invalid source_language"},
		{name: "bad target", mutate: func(c *Config) { c.Translate.TargetLanguage = "" }, wantErr: "invalid target_language"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Translate.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "negative retries", mutate: func(c *Config) { c.Translate.Retries = -1 }, wantErr: "retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Translate.ProjectID = "p"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_FileBetweenDefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "srt-translator.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[translate]
project_id = "file-project"
target_language = "es"
concurrency = 3

[cache]
path = "/tmp/cache.db"
`), 0o644))
	t.Setenv("TRANSLATE_TARGET_LANGUAGE", "it")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-project", cfg.Translate.ProjectID)
	assert.Equal(t, "it", cfg.Translate.TargetLanguage, "env wins over file")
	assert.Equal(t, 3, cfg.Translate.Concurrency)
	assert.Equal(t, "en-US", cfg.Translate.SourceLanguage, "missing keys keep defaults")
	assert.True(t, cfg.Cache.Enabled())
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[translate\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfigString_MasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-secret"
	cfg.Google.AccessToken = "ya29.secret"

	s := cfg.String()
	assert.NotContains(t, s, "sk-secret")
	assert.NotContains(t, s, "ya29.secret")
	assert.Contains(t, s, "****")
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey, "original untouched")
}
