package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ CacheRepository = (*SQLiteCacheRepository)(nil)

type SQLiteCacheRepository struct {
	db *DB
}

func NewCacheRepository(db *DB) *SQLiteCacheRepository {
	return &SQLiteCacheRepository{db: db}
}

func (r *SQLiteCacheRepository) GetEntry(ctx context.Context, namespace, key string) (*CacheEntry, error) {
	entry := CacheEntry{Namespace: namespace, Key: key}
	var storedAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT payload, stored_at
		FROM cache_entries
		WHERE namespace = ? AND cache_key = ?
	`, namespace, key).Scan(&entry.Payload, &storedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.StoredAt = time.UnixMilli(storedAt)

	return &entry, nil
}

func (r *SQLiteCacheRepository) GetEntryCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

func (r *SQLiteCacheRepository) UpsertEntry(ctx context.Context, entry CacheEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache_entries (namespace, cache_key, payload, stored_at)
		VALUES (?, ?, ?, ?)
	`, entry.Namespace, entry.Key, entry.Payload, entry.StoredAt.UnixMilli())

	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

func (r *SQLiteCacheRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE stored_at < ?
	`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cache entries: %w", err)
	}

	return deleted, nil
}
