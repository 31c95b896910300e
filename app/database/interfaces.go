package database

import (
	"context"
	"time"
)

type CacheRepository interface {
	GetEntry(ctx context.Context, namespace, key string) (*CacheEntry, error)
	GetEntryCount(ctx context.Context) (int, error)

	UpsertEntry(ctx context.Context, entry CacheEntry) error
	DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, name string) (*Profile, error)
	GetProfileCount(ctx context.Context) (int, error)

	UpsertProfile(ctx context.Context, name, uri string) error
	UpdateWarmStats(ctx context.Context, name string, stats WarmStats, nextWarm time.Time) error
}
