package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/foaf-comb/app/database"
)

// PruneCacheTask removes cache entries too old to serve even as stale
// fallback data.
type PruneCacheTask struct {
	Task
	Retention time.Duration
	cacheRepo database.CacheRepository
}

func NewPruneCacheTask(retention time.Duration, cacheRepo database.CacheRepository) *PruneCacheTask {
	return &PruneCacheTask{
		Task:      NewTask(TaskTypePruneCache, ""),
		Retention: retention,
		cacheRepo: cacheRepo,
	}
}

func (t *PruneCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().UTC().Add(-t.Retention)
	deleted, err := t.cacheRepo.DeleteEntriesBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	slog.Info("Task completed",
		"type", "PruneCache",
		"duration", t.GetDuration(),
		"cutoff", cutoff,
		"deleted", deleted)

	return nil
}
