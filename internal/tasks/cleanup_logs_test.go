package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCleaner captures the cutoff it was asked to purge up to.
type fakeCleaner struct {
	cutoff  time.Time
	removed int64
	err     error
}

func (f *fakeCleaner) DeleteOlderThan(cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.removed, f.err
}

func TestCleanupLogsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{removed: 12}
	processor := CleanupLogsProcessor(cleaner)

	err := processor(context.Background(), CleanupLogsTask{RetentionDays: 30})

	require.NoError(t, err)
	expected := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, cleaner.cutoff, time.Minute)
}

func TestCleanupLogsProcessor_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	processor := CleanupLogsProcessor(cleaner)

	err := processor(context.Background(), CleanupLogsTask{})

	require.NoError(t, err)
	expected := time.Now().UTC().AddDate(0, 0, -90)
	assert.WithinDuration(t, expected, cleaner.cutoff, time.Minute)
}

func TestCleanupLogsProcessor_PropagatesErrors(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("database locked")}
	processor := CleanupLogsProcessor(cleaner)

	err := processor(context.Background(), CleanupLogsTask{RetentionDays: 7})

	assert.Error(t, err)
}

func TestCleanupLogsProcessor_NilCleaner(t *testing.T) {
	processor := CleanupLogsProcessor(nil)

	err := processor(context.Background(), CleanupLogsTask{})

	assert.Error(t, err)
}

func TestCleanupLogsTask_Config(t *testing.T) {
	cfg := CleanupLogsTask{}.Config()

	assert.Equal(t, "cleanup_logs", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
}
