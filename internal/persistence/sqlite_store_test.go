package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache", "translations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_TranslationRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	key := TranslationKey{Provider: "google", SourceLanguage: "en-US", TargetLanguage: "fr", Text: "Hello world."}

	_, ok, err := store.GetTranslation(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.PutTranslation(ctx, key, "Bonjour monde."))

	got, ok, err := store.GetTranslation(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bonjour monde.", got)

	// language codes are case-insensitive, provider is not
	upper := key
	upper.SourceLanguage = "EN-us"
	_, ok, err = store.GetTranslation(ctx, upper)
	require.NoError(t, err)
	assert.True(t, ok)

	other := key
	other.Provider = "openai"
	_, ok, err = store.GetTranslation(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_UpsertAndList(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	hello := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "fr", Text: "Hello."}
	bye := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "fr", Text: "Bye."}
	german := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "de", Text: "Bye."}

	require.NoError(t, store.PutTranslation(ctx, hello, "Salut."))
	require.NoError(t, store.PutTranslation(ctx, hello, "Bonjour."))
	require.NoError(t, store.PutTranslation(ctx, bye, "Au revoir."))
	require.NoError(t, store.PutTranslation(ctx, german, "Tschüss."))

	_, _, err := store.GetTranslation(ctx, bye)
	require.NoError(t, err)

	entries, err := store.LoadTranslations(ctx, "en", "fr")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bye.", entries[0].Key.Text, "most used first")
	assert.Equal(t, 1, entries[0].Hits)
	assert.Equal(t, "Bonjour.", entries[1].TranslatedText, "upsert replaces the translation")
}

func TestSQLiteStore_DeleteTranslationsBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	key := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "fr", Text: "Hello."}
	require.NoError(t, store.PutTranslation(ctx, key, "Bonjour."))

	n, err := store.DeleteTranslationsBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteTranslationsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteStore_HitKeepsEntryFromPrune(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	key := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "fr", Text: "Hello."}
	require.NoError(t, store.PutTranslation(ctx, key, "Bonjour."))

	time.Sleep(20 * time.Millisecond)
	_, ok, err := store.GetTranslation(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := store.DeleteTranslationsBefore(ctx, time.Now().Add(-10*time.Millisecond))
	require.NoError(t, err)
	assert.Zero(t, n, "entry was used after the cutoff")

	entries, err := store.LoadTranslations(ctx, "en", "fr")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].LastUsedAt.After(entries[0].UpdatedAt))
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "translations.db")
	ctx := context.Background()
	key := TranslationKey{Provider: "google", SourceLanguage: "en", TargetLanguage: "fr", Text: "Hello."}

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.PutTranslation(ctx, key, "Bonjour."))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, ok, err := store.GetTranslation(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bonjour.", got)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("001_translation_cache.sql"))
	assert.Equal(t, 2, migrationVersion("002_translation_last_used.sql"))
	assert.Equal(t, 12, migrationVersion("12"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}
