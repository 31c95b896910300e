package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/profile"
)

type SyncProfileConfigTask struct {
	Task
	Config      *profile.Config
	profileRepo database.ProfileRepository
}

func NewSyncProfileConfigTask(config *profile.Config, profileRepo database.ProfileRepository) *SyncProfileConfigTask {
	return &SyncProfileConfigTask{
		Task:        NewTask(TaskTypeSyncProfileConfig, config.Name),
		Config:      config,
		profileRepo: profileRepo,
	}
}

func (t *SyncProfileConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.profileRepo.UpsertProfile(ctx, t.Config.Name, t.Config.URI); err != nil {
		return fmt.Errorf("failed to sync profile config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncProfileConfig",
		"profile", t.ProfileName,
		"duration", t.GetDuration())

	return nil
}
