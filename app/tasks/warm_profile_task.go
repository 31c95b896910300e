package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/profile"
)

// WarmProfileTask walks a profile and its activity feeds through a fresh
// session so the shared cache holds current data for API requests.
type WarmProfileTask struct {
	Task
	Config      *profile.Config
	sessions    *profile.SessionFactory
	profileRepo database.ProfileRepository
}

func NewWarmProfileTask(config *profile.Config, sessions *profile.SessionFactory, profileRepo database.ProfileRepository) *WarmProfileTask {
	return &WarmProfileTask{
		Task:        NewTask(TaskTypeWarmProfile, config.Name),
		Config:      config,
		sessions:    sessions,
		profileRepo: profileRepo,
	}
}

func (t *WarmProfileTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Config.Settings.Enabled {
		slog.Debug("Profile disabled, skipping", "profile", t.ProfileName)
		return nil
	}

	session := t.sessions.New(t.Config)
	root := session.Root(ctx, t.Config.URI)
	activity := root.ListActivity(ctx, t.Config.RelationKinds(), t.Config.Settings.Activity.MaxItems)

	if ctx.Err() != nil {
		return fmt.Errorf("warm run interrupted: %w", ctx.Err())
	}

	sessionStats := session.Stats()
	stats := database.WarmStats{
		Resources: sessionStats.Resources,
		Requests:  sessionStats.RequestsIssued,
		Feeds:     len(activity.FeedOrder),
		Items:     len(activity.Stream),
	}

	nextWarm := time.Now().UTC().Add(t.Config.WarmInterval())
	if err := t.profileRepo.UpdateWarmStats(ctx, t.ProfileName, stats, nextWarm); err != nil {
		return fmt.Errorf("failed to store warm stats: %w", err)
	}

	slog.Info("Task completed",
		"type", "WarmProfile",
		"profile", t.ProfileName,
		"duration", t.GetDuration(),
		"resources", stats.Resources,
		"requests", stats.Requests,
		"feeds", stats.Feeds,
		"items", stats.Items)

	return nil
}
