package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the admin API to queue background work.
// Example usage:
//
//	scheduler := NewScheduler(configCache, profileRepo, cacheRepo, sessions)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewWarmProfileTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
