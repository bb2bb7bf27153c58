package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheWarmup bumps the response cache and preloads both dashboards.
	TaskCacheWarmup = "cache:warmup"
)

// CacheWarmupPayload describes one warm-up run.
type CacheWarmupPayload struct {
	Reason string `json:"reason"`
	RunID  string `json:"run_id,omitempty"`
}

// NewCacheWarmupTask constructs an Asynq task for the warm-up job.
func NewCacheWarmupTask(reason string) (*asynq.Task, error) {
	if reason == "" {
		reason = "scheduled"
	}
	data, err := json.Marshal(CacheWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheWarmup, data), nil
}
