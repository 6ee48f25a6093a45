package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrCacheNotFound is returned when a cache entry is not found.
var ErrCacheNotFound = errors.New("cache entry not found")

// CacheEntry is a cached currency API response.
type CacheEntry struct {
	CacheKey        string
	Body            string
	FetchedDay      string // YYYY-MM-DD, local time
	CreatedAtUnixMs int64
}

// GetCached retrieves a cached entry by key.
// Returns ErrCacheNotFound if the entry doesn't exist. Freshness is left
// to the caller, which compares FetchedDay with today.
func (s *SQLiteStore) GetCached(ctx context.Context, key string) (*CacheEntry, error) {
	if key == "" {
		return nil, errors.New("cache key is required")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT cache_key, body, fetched_day, created_at_unix_ms
		FROM rate_cache
		WHERE cache_key = ?
	`, key)

	var entry CacheEntry
	err := row.Scan(
		&entry.CacheKey,
		&entry.Body,
		&entry.FetchedDay,
		&entry.CreatedAtUnixMs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return &entry, nil
}

// SetCached stores or updates a cache entry.
func (s *SQLiteStore) SetCached(ctx context.Context, entry *CacheEntry) error {
	if entry == nil {
		return errors.New("cache entry cannot be nil")
	}
	if entry.CacheKey == "" {
		return errors.New("cache_key is required")
	}
	if entry.Body == "" {
		return errors.New("body is required")
	}
	if entry.FetchedDay == "" {
		return errors.New("fetched_day is required")
	}

	if entry.CreatedAtUnixMs == 0 {
		entry.CreatedAtUnixMs = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rate_cache (cache_key, body, fetched_day, created_at_unix_ms)
		VALUES (?, ?, ?, ?)
	`, entry.CacheKey, entry.Body, entry.FetchedDay, entry.CreatedAtUnixMs)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

// DeleteCached removes every cache entry.
func (s *SQLiteStore) DeleteCached(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rate_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
