package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MimeLyc/srt-translator/internal/config"
	"github.com/MimeLyc/srt-translator/internal/persistence"
	"github.com/MimeLyc/srt-translator/internal/translator"
	"github.com/MimeLyc/srt-translator/pkg/log"
)

// NewTranslator builds the translator stack described by cfg: the provider
// client, wrapped in retries when enabled, wrapped in the cache when a cache
// path is set. The returned close function releases the client and the cache.
func NewTranslator(ctx context.Context, cfg *config.Config) (translator.Translator, func() error, error) {
	noop := func() error { return nil }

	var (
		base        translator.Translator
		closeClient = noop
		err         error
	)
	switch cfg.Translate.Provider {
	case config.ProviderGoogle:
		var g *translator.Google
		g, err = translator.NewGoogle(ctx, translator.GoogleConfig{
			ProjectID:   cfg.Translate.ProjectID,
			Location:    cfg.Google.Location,
			APIURL:      cfg.Google.APIURL,
			AccessToken: cfg.Google.AccessToken,
			Timeout:     cfg.Google.Timeout,
		})
		if err == nil {
			base, closeClient = g, g.Close
		}
	case config.ProviderOpenAI:
		base, err = translator.NewOpenAI(translator.OpenAIConfig{
			APIKey:      cfg.LLM.APIKey,
			APIURL:      cfg.LLM.APIURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Translate.Provider)
	}
	if err != nil {
		return nil, noop, WrapError(err, ErrConfig, "failed to create translator").
			WithContext("provider", cfg.Translate.Provider)
	}

	tr := base
	if cfg.Translate.Retries > 0 {
		policy := translator.DefaultRetryPolicy()
		policy.MaxRetries = cfg.Translate.Retries
		tr = translator.NewRetrying(tr, policy)
	}

	if !cfg.Cache.Enabled() {
		return tr, closeClient, nil
	}

	store, err := persistence.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		_ = closeClient()
		return nil, noop, WrapError(err, ErrConfig, "failed to open translation cache").
			WithContext("path", cfg.Cache.Path)
	}
	log.Debug("translation cache: %s", cfg.Cache.Path)

	closeAll := func() error {
		return errors.Join(store.Close(), closeClient())
	}
	return NewCachedTranslator(tr, store, cfg.Translate.Provider), closeAll, nil
}

// TranslatorConfigFrom maps application config onto the file translator.
func TranslatorConfigFrom(cfg *config.Config) TranslatorConfig {
	trailing := TrailingFlush
	if cfg.Translate.DropTrailing {
		trailing = TrailingDrop
	}
	return TranslatorConfig{
		SourceLanguage: cfg.Translate.SourceLanguage,
		TargetLanguage: cfg.Translate.TargetLanguage,
		Concurrency:    cfg.Translate.Concurrency,
		Trailing:       trailing,
	}
}
