package persistence

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// TranslationKey identifies one cached sentence translation.
type TranslationKey struct {
	Provider       string
	SourceLanguage string
	TargetLanguage string
	Text           string
}

// Digest is the primary key of the entry. Language codes are compared
// case-insensitively.
func (k TranslationKey) Digest() string {
	h := sha256.New()
	for _, part := range []string{
		k.Provider,
		strings.ToLower(k.SourceLanguage),
		strings.ToLower(k.TargetLanguage),
		k.Text,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type TranslationEntry struct {
	Key            TranslationKey
	TranslatedText string
	Hits           int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastUsedAt     time.Time
}
