package service

import (
	"context"

	"github.com/MimeLyc/srt-translator/internal/persistence"
	"github.com/MimeLyc/srt-translator/internal/translator"
	"github.com/MimeLyc/srt-translator/pkg/log"
	"golang.org/x/sync/singleflight"
)

// TranslationCache stores sentence translations between runs.
type TranslationCache interface {
	GetTranslation(ctx context.Context, key persistence.TranslationKey) (string, bool, error)
	PutTranslation(ctx context.Context, key persistence.TranslationKey, translated string) error
}

// CachedTranslator answers repeated sentences from a cache and collapses
// identical sentences that are translated at the same time into one call.
// Cache failures are logged and never fail a translation.
type CachedTranslator struct {
	next     translator.Translator
	cache    TranslationCache
	provider string
	group    singleflight.Group
}

func NewCachedTranslator(next translator.Translator, cache TranslationCache, provider string) *CachedTranslator {
	return &CachedTranslator{
		next:     next,
		cache:    cache,
		provider: provider,
	}
}

func (c *CachedTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := persistence.TranslationKey{
		Provider:       c.provider,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Text:           text,
	}

	v, err, shared := c.group.Do(key.Digest(), func() (any, error) {
		cached, ok, err := c.cache.GetTranslation(ctx, key)
		if err != nil {
			log.Warn("translation cache lookup failed: %v", err)
		} else if ok {
			log.Debug("cache hit: %q", text)
			return cached, nil
		}

		translated, err := c.next.Translate(ctx, text, sourceLang, targetLang)
		if err != nil {
			return "", err
		}
		if err := c.cache.PutTranslation(ctx, key, translated); err != nil {
			log.Warn("translation cache store failed: %v", err)
		}
		return translated, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		log.Debug("shared in-flight translation: %q", text)
	}
	return v.(string), nil
}
