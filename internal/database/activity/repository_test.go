package activity

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_activity_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func recordAt(t *testing.T, repo *Repository, action entities.LogAction, userID uint, at time.Time) {
	entry := &entities.LogEntry{Action: action, CreatedAt: at}
	if userID > 0 {
		entry.UserID = &userID
	}
	require.NoError(t, repo.Record(entry))
}

func TestRepository_Record(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userID := uint(1)
	err := repo.Record(&entities.LogEntry{
		UserID:    &userID,
		Action:    entities.ActionLogin,
		IPAddress: "127.0.0.1",
	})
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Record_RejectsUnknownAction(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Record(&entities.LogEntry{Action: "made_up_action"})
	assert.True(t, database.IsValidation(err))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_Record_AcceptsFullVocabulary(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, action := range entities.AllActions {
		err := repo.Record(&entities.LogEntry{Action: action})
		require.NoError(t, err, "action %s", action)
	}
}

func TestRepository_Record_SurvivesMissingReferences(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	// The ids point at rows that do not exist; the weak references make
	// that legal.
	userID, bookID := uint(9999), uint(8888)
	err := repo.Record(&entities.LogEntry{
		UserID: &userID,
		BookID: &bookID,
		Action: entities.ActionView,
	})
	require.NoError(t, err)
}

func TestRepository_List_Filters(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	recordAt(t, repo, entities.ActionLogin, 1, now.Add(-48*time.Hour))
	recordAt(t, repo, entities.ActionDownload, 1, now.Add(-1*time.Hour))
	recordAt(t, repo, entities.ActionDownload, 2, now)

	t.Run("by action", func(t *testing.T) {
		entries, total, err := repo.List(Filter{Action: entities.ActionDownload})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("by user", func(t *testing.T) {
		entries, total, err := repo.List(Filter{UserID: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, entities.ActionDownload, entries[0].Action)
	})

	t.Run("by date range", func(t *testing.T) {
		from := now.Add(-2 * time.Hour)
		_, total, err := repo.List(Filter{DateFrom: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("newest first", func(t *testing.T) {
		entries, _, err := repo.List(Filter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.True(t, entries[0].CreatedAt.After(entries[2].CreatedAt))
	})
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(-time.Second))
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(-30*24*time.Hour))
	recordAt(t, repo, entities.ActionView, 1, cutoff)
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(time.Hour))

	removed, err := repo.DeleteOlderThan(cutoff)

	require.NoError(t, err)
	// Strictly before the cutoff: the entry at the cutoff instant stays.
	assert.Equal(t, int64(2), removed)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_DeleteOlderThan_NothingToDo(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	removed, err := repo.DeleteOlderThan(time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRepository_CountOlderThan(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(-time.Hour))
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(-10*24*time.Hour))
	recordAt(t, repo, entities.ActionView, 1, cutoff)
	recordAt(t, repo, entities.ActionView, 1, cutoff.Add(time.Hour))

	pending, err := repo.CountOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	// Counting removes nothing.
	total, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}
