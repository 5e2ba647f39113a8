package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// LogCleaner deletes activity log entries older than a cutoff and reports
// how many rows were removed.
type LogCleaner interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// CleanupLogsTask removes activity log entries past the retention window.
type CleanupLogsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for log cleanup tasks.
func (t CleanupLogsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_logs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupLogsProcessor creates a processor function for CleanupLogsTask.
func CleanupLogsProcessor(cleaner LogCleaner) backlite.QueueProcessor[CleanupLogsTask] {
	return func(ctx context.Context, task CleanupLogsTask) error {
		if cleaner == nil {
			return fmt.Errorf("log cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

		deleted, err := cleaner.DeleteOlderThan(cutoff)
		if err != nil {
			return fmt.Errorf("cleanup logs: %w", err)
		}

		log.Printf("[TASK] Purged %d log entries older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupLogsQueue creates a backlite queue for log cleanup tasks.
func NewCleanupLogsQueue(cleaner LogCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupLogsProcessor(cleaner))
}
