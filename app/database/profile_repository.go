package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ ProfileRepository = (*SQLiteProfileRepository)(nil)

type SQLiteProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

func (r *SQLiteProfileRepository) GetProfile(ctx context.Context, name string) (*Profile, error) {
	var profile Profile
	var lastWarmedAt, nextWarmAt sql.NullInt64
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT name, uri, last_warmed_at, next_warm_at, resources, requests, feeds, items, created_at, updated_at
		FROM profiles
		WHERE name = ?
	`, name).Scan(
		&profile.Name, &profile.URI, &lastWarmedAt, &nextWarmAt,
		&profile.Resources, &profile.Requests, &profile.Feeds, &profile.Items,
		&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.LastWarmedAt = nullTime(lastWarmedAt)
	profile.NextWarmAt = nullTime(nextWarmAt)
	profile.CreatedAt = time.UnixMilli(createdAt)
	profile.UpdatedAt = time.UnixMilli(updatedAt)

	return &profile, nil
}

func (r *SQLiteProfileRepository) GetProfileCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// UpsertProfile registers a profile. A changed root URI resets the warm
// schedule so the new subject is crawled on the next tick.
func (r *SQLiteProfileRepository) UpsertProfile(ctx context.Context, name, uri string) error {
	now := time.Now().UnixMilli()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (name, uri, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			next_warm_at = CASE WHEN profiles.uri = excluded.uri THEN profiles.next_warm_at ELSE NULL END,
			uri = excluded.uri,
			updated_at = excluded.updated_at
	`, name, uri, now, now)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

func (r *SQLiteProfileRepository) UpdateWarmStats(ctx context.Context, name string, stats WarmStats, nextWarm time.Time) error {
	now := time.Now().UnixMilli()

	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET last_warmed_at = ?, next_warm_at = ?, resources = ?, requests = ?, feeds = ?, items = ?, updated_at = ?
		WHERE name = ?
	`, now, nextWarm.UnixMilli(), stats.Resources, stats.Requests, stats.Feeds, stats.Items, now, name)
	if err != nil {
		return fmt.Errorf("failed to update warm stats: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("profile '%s' not found", name)
	}

	return nil
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}
