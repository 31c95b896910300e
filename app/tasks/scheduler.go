package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/foaf-comb/app/cfg"
	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/profile"
)

const (
	DefaultPruneInterval  = 24 * time.Hour
	DefaultCacheRetention = 30 * 24 * time.Hour
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	profileRepo    database.ProfileRepository
	cacheRepo      database.CacheRepository
	configCache    *profile.ConfigCache
	sessions       *profile.SessionFactory
	interval       time.Duration
	workerCount    int
	cacheRetention time.Duration
	lastPrune      time.Time
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

func NewScheduler(configCache *profile.ConfigCache, profileRepo database.ProfileRepository,
	cacheRepo database.CacheRepository, sessions *profile.SessionFactory) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		profileRepo:    profileRepo,
		cacheRepo:      cacheRepo,
		configCache:    configCache,
		sessions:       sessions,
		interval:       time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:    cfg.WorkerCount,
		cacheRetention: DefaultCacheRetention,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueProfile queues a config sync for the profile followed by a warm
// run when it is enabled.
func (s *Scheduler) EnqueueProfile(config *profile.Config) error {
	if err := s.EnqueueTask(NewSyncProfileConfigTask(config, s.profileRepo)); err != nil {
		return fmt.Errorf("failed to enqueue SyncProfileConfigTask: %w", err)
	}

	if !config.Settings.Enabled {
		slog.Debug("Profile disabled, skipping WarmProfileTask", "profile", config.Name)
		return nil
	}

	if err := s.EnqueueTask(NewWarmProfileTask(config, s.sessions, s.profileRepo)); err != nil {
		return fmt.Errorf("failed to enqueue WarmProfileTask: %w", err)
	}
	return nil
}

func (s *Scheduler) enqueueStartupTasks() {
	s.enqueuePrune()

	configs := s.configCache.GetConfigs()
	if len(configs) == 0 {
		slog.Debug("No profile configurations found")
		return
	}

	slog.Debug("Processing profile configurations", "count", len(configs))

	for _, config := range configs {
		if err := s.EnqueueProfile(config); err != nil {
			slog.Warn("Failed to enqueue profile tasks", "profile", config.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	if time.Since(s.lastPrune) >= DefaultPruneInterval {
		s.enqueuePrune()
	}

	configs := s.configCache.GetEnabledConfigs()
	if len(configs) == 0 {
		slog.Debug("No enabled profile configurations found")
		return
	}

	for _, config := range configs {
		p, err := s.profileRepo.GetProfile(s.ctx, config.Name)
		if err != nil {
			slog.Warn("Failed to get profile from database, skipping", "profile", config.Name, "error", err)
			continue
		}
		if p == nil {
			slog.Warn("Profile not found in database, skipping", "profile", config.Name)
			continue
		}

		now := time.Now().UTC()
		if p.NextWarmAt != nil && p.NextWarmAt.After(now) {
			slog.Debug("Profile not due for warming yet", "profile", config.Name, "next_warm_at", p.NextWarmAt)
			continue
		}

		if err := s.EnqueueTask(NewWarmProfileTask(config, s.sessions, s.profileRepo)); err != nil {
			slog.Warn("Failed to enqueue WarmProfileTask", "profile", config.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueuePrune() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.EnqueueTask(NewPruneCacheTask(s.cacheRetention, s.cacheRepo)); err != nil {
		slog.Warn("Failed to enqueue PruneCacheTask", "error", err)
		return
	}
	s.lastPrune = time.Now()
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "profile", task.GetProfileName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-time.After(retryDelay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

func retryDelay(retryCount int) time.Duration {
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}
