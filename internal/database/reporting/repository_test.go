package reporting

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
	dbPath := "./test_reporting_" + t.Name() + ".db"

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

func createTestBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	book := &entities.Book{Title: title, IsActive: true}
	require.NoError(t, db.Create(book).Error)
	return book
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func logDownloads(t *testing.T, db *gorm.DB, userID, bookID uint, n int) {
	for i := 0; i < n; i++ {
		entry := entities.LogEntry{
			UserID:    &userID,
			BookID:    &bookID,
			Action:    entities.ActionDownload,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, db.Create(&entry).Error)
	}
}

func TestRepository_TopBooksByDownloads(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	b1 := createTestBook(t, db, "First")
	b2 := createTestBook(t, db, "Second")
	b3 := createTestBook(t, db, "Third")

	logDownloads(t, db, user.ID, b1.ID, 3)
	logDownloads(t, db, user.ID, b2.ID, 3)
	logDownloads(t, db, user.ID, b3.ID, 5)

	rows, err := repo.TopBooksByDownloads(10)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, b3.ID, rows[0].BookID)
	assert.Equal(t, int64(5), rows[0].Downloads)
	// Equal counts rank by ascending book id.
	assert.Equal(t, b1.ID, rows[1].BookID)
	assert.Equal(t, b2.ID, rows[2].BookID)
}

func TestRepository_TopBooksByDownloads_Limit(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	for i := 0; i < 4; i++ {
		book := createTestBook(t, db, "Book")
		logDownloads(t, db, user.ID, book.ID, i+1)
	}

	rows, err := repo.TopBooksByDownloads(2)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepository_TopBooksByDownloads_OnlyDownloads(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "Viewed Not Downloaded")
	entry := entities.LogEntry{
		UserID:    &user.ID,
		BookID:    &book.ID,
		Action:    entities.ActionView,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&entry).Error)

	rows, err := repo.TopBooksByDownloads(10)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepository_TopUsersByActivity(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	busy := createTestUser(t, db, "busy")
	quiet := createTestUser(t, db, "quiet")
	book := createTestBook(t, db, "Shared")

	logDownloads(t, db, busy.ID, book.ID, 4)
	logDownloads(t, db, quiet.ID, book.ID, 1)

	rows, err := repo.TopUsersByActivity(10)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, busy.ID, rows[0].UserID)
	assert.Equal(t, "busy", rows[0].Username)
	assert.Equal(t, int64(4), rows[0].Actions)
}

func TestRepository_ActionCounts_CoversVocabulary(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "Logged")
	logDownloads(t, db, user.ID, book.ID, 2)

	rows, err := repo.ActionCounts()

	require.NoError(t, err)
	// One row per action, zeros included, in vocabulary order.
	require.Len(t, rows, len(entities.AllActions))
	counted := make(map[entities.LogAction]int64, len(rows))
	for i, row := range rows {
		assert.Equal(t, entities.AllActions[i], row.Action)
		counted[row.Action] = row.Count
	}
	assert.Equal(t, int64(2), counted[entities.ActionDownload])
	assert.Equal(t, int64(0), counted[entities.ActionRegister])
}

func TestRepository_DailyActivity(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	lastMonth := today.AddDate(0, -1, 0)

	for _, at := range []time.Time{today, today.Add(time.Hour), yesterday, lastMonth} {
		entry := entities.LogEntry{UserID: &user.ID, Action: entities.ActionView, CreatedAt: at}
		require.NoError(t, db.Create(&entry).Error)
	}

	rows, err := repo.DailyActivity(today.AddDate(0, 0, -7))

	require.NoError(t, err)
	// Two buckets, ascending; days without activity are absent.
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-08-29", rows[0].Date)
	assert.Equal(t, int64(1), rows[0].Count)
	assert.Equal(t, "2026-08-30", rows[1].Date)
	assert.Equal(t, int64(2), rows[1].Count)
}

func TestRepository_DashboardTotals(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader")
	active := createTestBook(t, db, "Active")
	inactive := createTestBook(t, db, "Inactive")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	author := entities.Author{FirstName: "Some", LastName: "Author"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&entities.Review{UserID: user.ID, BookID: active.ID, Rating: 5}).Error)
	logDownloads(t, db, user.ID, active.ID, 3)

	totals, err := repo.DashboardTotals()

	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Users)
	assert.Equal(t, int64(1), totals.Books)
	assert.Equal(t, int64(1), totals.Authors)
	assert.Equal(t, int64(1), totals.Reviews)
	assert.Equal(t, int64(3), totals.Downloads)
}
