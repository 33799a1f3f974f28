package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MimeLyc/srt-translator/pkg/log"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Values are layered: defaults, then an optional TOML file, then environment
// variables, then Options (command line flags).
//
// Environment Variables:
// Translation:
// - TRANSLATE_PROJECT_ID: Google Cloud project ID (required for the google provider)
// - TRANSLATE_SOURCE_LANGUAGE: source language code (default: en-US)
// - TRANSLATE_TARGET_LANGUAGE: target language code (default: fr)
// - TRANSLATE_PROVIDER: google or openai (default: google)
// - TRANSLATE_CONCURRENCY: sentences translated in parallel (default: 1)
// - TRANSLATE_RETRIES: retries per sentence on transient failure (default: 2)
// - TRANSLATE_DROP_TRAILING: end output at the last complete sentence (default: false)
//
// Google Cloud Translation:
// - TRANSLATE_LOCATION: API location (default: global)
// - GOOGLE_TRANSLATE_URL: API base URL (default: https://translation.googleapis.com)
// - GOOGLE_ACCESS_TOKEN: OAuth2 access token (default: Application Default Credentials)
// - GOOGLE_TIMEOUT: request timeout in seconds (default: 30)
//
// LLM (openai provider):
// - LLM_API_KEY: API key for the LLM provider
// - LLM_API_URL: API endpoint URL (default: https://openrouter.ai/api/v1)
// - LLM_MODEL: Model name to use (default: openai/gpt-4o-mini)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.3)
// - LLM_TIMEOUT: Request timeout in seconds (default: 60)
//
// Misc:
// - TRANSLATE_CACHE_DB: SQLite translation cache path (default: disabled)
// - LOG_LEVEL: debug, info, warn or error (default: info)
type Config struct {
	Translate TranslateConfig `toml:"translate"`
	Google    GoogleConfig    `toml:"google"`
	LLM       LLMConfig       `toml:"llm"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
}

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// ErrMissingProjectID is returned when the google provider has no project ID
// from either the command line or TRANSLATE_PROJECT_ID.
var ErrMissingProjectID = errors.New("project_id parameter is required. Please set it or set TRANSLATE_PROJECT_ID env variable")

type TranslateConfig struct {
	ProjectID      string `toml:"project_id"`
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
	Provider       string `toml:"provider"`
	Concurrency    int    `toml:"concurrency"`
	Retries        int    `toml:"retries"`
	DropTrailing   bool   `toml:"drop_trailing"`
}

type GoogleConfig struct {
	Location    string `toml:"location"`
	APIURL      string `toml:"api_url"`
	AccessToken string `toml:"access_token"`
	Timeout     int    `toml:"timeout"`
}

// LLMConfig holds the configuration for an OpenAI compatible endpoint
type LLMConfig struct {
	APIKey      string  `toml:"api_key"`
	APIURL      string  `toml:"api_url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Timeout     int     `toml:"timeout"`
}

type CacheConfig struct {
	Path string `toml:"path"`
}

func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.Path) != ""
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Translate: TranslateConfig{
			SourceLanguage: "en-US",
			TargetLanguage: "fr",
			Provider:       ProviderGoogle,
			Concurrency:    1,
			Retries:        2,
		},
		Google: GoogleConfig{
			Location: "global",
			APIURL:   "https://translation.googleapis.com",
			Timeout:  30,
		},
		LLM: LLMConfig{
			APIURL:      "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			Temperature: 0.3,
			Timeout:     60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// NewFromEnv creates a new Config from defaults, environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	return Load("", opts...)
}

// Load is NewFromEnv with a TOML file layered between defaults and environment.
// An empty path skips the file.
func Load(path string, opts ...Option) (*Config, error) {
	config := Default()

	if path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: %s", config)
	return config, nil
}

func (c *Config) applyEnv() {
	c.Translate.ProjectID = getEnvString("TRANSLATE_PROJECT_ID", c.Translate.ProjectID)
	c.Translate.SourceLanguage = getEnvString("TRANSLATE_SOURCE_LANGUAGE", c.Translate.SourceLanguage)
	c.Translate.TargetLanguage = getEnvString("TRANSLATE_TARGET_LANGUAGE", c.Translate.TargetLanguage)
	c.Translate.Provider = getEnvString("TRANSLATE_PROVIDER", c.Translate.Provider)
	c.Translate.Concurrency = getEnvInt("TRANSLATE_CONCURRENCY", c.Translate.Concurrency)
	c.Translate.Retries = getEnvInt("TRANSLATE_RETRIES", c.Translate.Retries)
	c.Translate.DropTrailing = getEnvBool("TRANSLATE_DROP_TRAILING", c.Translate.DropTrailing)

	c.Google.Location = getEnvString("TRANSLATE_LOCATION", c.Google.Location)
	c.Google.APIURL = getEnvString("GOOGLE_TRANSLATE_URL", c.Google.APIURL)
	c.Google.AccessToken = getEnvString("GOOGLE_ACCESS_TOKEN", c.Google.AccessToken)
	c.Google.Timeout = getEnvInt("GOOGLE_TIMEOUT", c.Google.Timeout)

	c.LLM.APIKey = getEnvString("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.APIURL = getEnvString("LLM_API_URL", c.LLM.APIURL)
	c.LLM.Model = getEnvString("LLM_MODEL", c.LLM.Model)
	c.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvInt("LLM_TIMEOUT", c.LLM.Timeout)

	c.Cache.Path = getEnvString("TRANSLATE_CACHE_DB", c.Cache.Path)
	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)
}

// Validate checks if all required configuration is properly set
func (c *Config) Validate() error {
	switch c.Translate.Provider {
	case ProviderGoogle:
		if strings.TrimSpace(c.Translate.ProjectID) == "" {
			return ErrMissingProjectID
		}
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for the %s provider", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Translate.Provider, ProviderGoogle, ProviderOpenAI)
	}

	if _, err := language.Parse(c.Translate.SourceLanguage); err != nil {
		return fmt.Errorf("invalid source_language %q: %w", c.Translate.SourceLanguage, err)
	}
	if _, err := language.Parse(c.Translate.TargetLanguage); err != nil {
		return fmt.Errorf("invalid target_language %q: %w", c.Translate.TargetLanguage, err)
	}
	if c.Translate.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.Translate.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	return nil
}

// String renders the config with secrets masked.
func (c *Config) String() string {
	masked := *c
	masked.Google.AccessToken = mask(c.Google.AccessToken)
	masked.LLM.APIKey = mask(c.LLM.APIKey)
	return fmt.Sprintf("%+v", struct {
		Translate TranslateConfig
		Google    GoogleConfig
		LLM       LLMConfig
		Cache     CacheConfig
		Log       LogConfig
	}(masked))
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
