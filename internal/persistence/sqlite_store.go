package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore persists sentence translations between runs.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		// embed.FS paths always use forward slashes
		content, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// GetTranslation looks a sentence up. A hit is counted and marks the entry
// as used now.
func (s *SQLiteStore) GetTranslation(ctx context.Context, key TranslationKey) (string, bool, error) {
	digest := key.Digest()

	var translated string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT translated_text FROM translations WHERE cache_key = ?`,
		digest,
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query translation: %w", err)
	}

	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE translations SET hits = hits + 1, last_used_at = ? WHERE cache_key = ?`,
		time.Now().UTC(),
		digest,
	); err != nil {
		return "", false, fmt.Errorf("count translation hit: %w", err)
	}
	return translated, true, nil
}

func (s *SQLiteStore) PutTranslation(ctx context.Context, key TranslationKey, translated string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO translations (
			cache_key, provider, source_language, target_language, source_text, translated_text, created_at, updated_at, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			translated_text=excluded.translated_text,
			updated_at=excluded.updated_at,
			last_used_at=excluded.last_used_at`,
		key.Digest(),
		key.Provider,
		key.SourceLanguage,
		key.TargetLanguage,
		key.Text,
		translated,
		now,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// LoadTranslations lists the cached entries for a language pair, most used first.
func (s *SQLiteStore) LoadTranslations(ctx context.Context, sourceLang, targetLang string) ([]TranslationEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT provider, source_language, target_language, source_text, translated_text, hits, created_at, updated_at, last_used_at
		 FROM translations
		 WHERE lower(source_language) = lower(?) AND lower(target_language) = lower(?)
		 ORDER BY hits DESC, created_at ASC`,
		sourceLang,
		targetLang,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]TranslationEntry, 0)
	for rows.Next() {
		var (
			item     TranslationEntry
			lastUsed sql.NullTime
		)
		if err := rows.Scan(
			&item.Key.Provider,
			&item.Key.SourceLanguage,
			&item.Key.TargetLanguage,
			&item.Key.Text,
			&item.TranslatedText,
			&item.Hits,
			&item.CreatedAt,
			&item.UpdatedAt,
			&lastUsed,
		); err != nil {
			return nil, err
		}
		item.LastUsedAt = item.UpdatedAt
		if lastUsed.Valid {
			item.LastUsedAt = lastUsed.Time
		}
		ret = append(ret, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// DeleteTranslationsBefore prunes entries neither stored nor hit since cutoff.
func (s *SQLiteStore) DeleteTranslationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE COALESCE(last_used_at, updated_at) < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
