package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

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

func createTestBook(t *testing.T, repo *Repository, title string) *entities.Book {
	book, err := repo.Create(&entities.Book{Title: title, Language: "en"})
	require.NoError(t, err)
	return book
}

func TestRepository_Create(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	isbn := "978-0-13-468599-1"
	book, err := repo.Create(&entities.Book{
		Title:           "The Go Programming Language",
		Language:        "en",
		PublicationYear: 2015,
		ISBN:            &isbn,
	})

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.True(t, book.IsActive)
	require.NotNil(t, book.ISBN)
	assert.Equal(t, "9780134685991", *book.ISBN)
}

func TestRepository_Create_Validation(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("missing title", func(t *testing.T) {
		_, err := repo.Create(&entities.Book{})
		assert.True(t, database.IsValidation(err))
	})

	t.Run("year out of range", func(t *testing.T) {
		_, err := repo.Create(&entities.Book{Title: "Old", PublicationYear: 999})
		assert.True(t, database.IsValidation(err))
	})

	t.Run("bad isbn", func(t *testing.T) {
		isbn := "not-an-isbn"
		_, err := repo.Create(&entities.Book{Title: "Bad", ISBN: &isbn})
		assert.True(t, database.IsValidation(err))
	})
}

func TestRepository_Create_DuplicateISBN(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	isbn := "9780134685991"
	_, err := repo.Create(&entities.Book{Title: "First", ISBN: &isbn})
	require.NoError(t, err)

	other := "978-0134685991"
	_, err = repo.Create(&entities.Book{Title: "Second", ISBN: &other})

	assert.True(t, database.IsConflict(err))
}

func TestRepository_Create_EmptyISBNsDoNotCollide(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(&entities.Book{Title: "First"})
	require.NoError(t, err)
	_, err = repo.Create(&entities.Book{Title: "Second"})
	require.NoError(t, err)
}

func TestRepository_GetActive(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "Visible")

	got, err := repo.GetActive(book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	require.NoError(t, repo.Deactivate(book.ID))

	_, err = repo.GetActive(book.ID)
	assert.True(t, database.IsNotFound(err))

	// Admin read still sees the deactivated book.
	got, err = repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestRepository_Deactivate_ExcludesFromListing(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	kept := createTestBook(t, repo, "Kept")
	removed := createTestBook(t, repo, "Removed")

	require.NoError(t, repo.Deactivate(removed.ID))

	books, total, err := repo.ListActive(ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, kept.ID, books[0].ID)
}

func TestRepository_Deactivate_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Deactivate(999)
	assert.True(t, database.IsNotFound(err))
}

func TestRepository_ListActive_Filters(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	english, err := repo.Create(&entities.Book{Title: "English", Language: "en"})
	require.NoError(t, err)
	_, err = repo.Create(&entities.Book{Title: "Ukrainian", Language: "uk"})
	require.NoError(t, err)

	genre := entities.Genre{Name: "Fiction"}
	require.NoError(t, db.Create(&genre).Error)
	require.NoError(t, db.Create(&entities.BookGenre{BookID: english.ID, GenreID: genre.ID}).Error)

	t.Run("by language", func(t *testing.T) {
		books, total, err := repo.ListActive(ListFilter{Language: "en"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, books, 1)
		assert.Equal(t, "English", books[0].Title)
	})

	t.Run("by genre", func(t *testing.T) {
		books, total, err := repo.ListActive(ListFilter{GenreID: genre.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, books, 1)
		assert.Equal(t, english.ID, books[0].ID)
	})

	t.Run("title sort", func(t *testing.T) {
		books, _, err := repo.ListActive(ListFilter{Sort: SortTitle})
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, "English", books[0].Title)
		assert.Equal(t, "Ukrainian", books[1].Title)
	})
}

func TestRepository_Search(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, repo, "The Go Programming Language")
	createTestBook(t, repo, "Learning Python")
	hidden := createTestBook(t, repo, "Go in Action")
	require.NoError(t, repo.Deactivate(hidden.ID))

	books, total, err := repo.Search("go", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "The Go Programming Language", books[0].Title)
}

func TestRepository_AverageRating(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "Rated")

	t.Run("no reviews rates zero", func(t *testing.T) {
		avg, err := repo.AverageRating(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("mean of ratings", func(t *testing.T) {
		require.NoError(t, db.Create(&entities.Review{UserID: 1, BookID: book.ID, Rating: 4}).Error)
		require.NoError(t, db.Create(&entities.Review{UserID: 2, BookID: book.ID, Rating: 5}).Error)

		avg, err := repo.AverageRating(book.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, avg, 0.0001)

		count, err := repo.ReviewCount(book.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestRepository_Update(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "Before")
	require.NoError(t, repo.Deactivate(book.ID))

	book.Title = "After"
	updated, err := repo.Update(book)

	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	// Update never resurrects a deactivated book.
	assert.False(t, updated.IsActive)
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"thirteen digits with dashes", "978-0-13-468599-1", "9780134685991", false},
		{"ten digits", "0134685997", "0134685997", false},
		{"spaces stripped", "978 0134685991", "9780134685991", false},
		{"empty means none", "", "", false},
		{"wrong length", "12345", "", true},
		{"letters rejected", "97801346859X1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeISBN(tt.input)
			if tt.wantErr {
				assert.True(t, database.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_CreateWithLinks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := entities.Author{FirstName: "Ivan", LastName: "Franko"}
	require.NoError(t, db.Create(&author).Error)
	genre := entities.Genre{Name: "Poetry"}
	require.NoError(t, db.Create(&genre).Error)

	book, err := repo.CreateWithLinks(
		&entities.Book{Title: "Zivyale Lystia", Language: "uk"},
		[]uint{author.ID},
		[]uint{genre.ID},
	)
	require.NoError(t, err)
	require.NotZero(t, book.ID)

	var authorLinks, genreLinks int64
	require.NoError(t, db.Model(&entities.BookAuthor{}).Where("book_id = ?", book.ID).Count(&authorLinks).Error)
	require.NoError(t, db.Model(&entities.BookGenre{}).Where("book_id = ?", book.ID).Count(&genreLinks).Error)
	assert.EqualValues(t, 1, authorLinks)
	assert.EqualValues(t, 1, genreLinks)
}

func TestRepository_CreateWithLinks_UnknownAuthorLeavesNothing(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateWithLinks(&entities.Book{Title: "Orphaned"}, []uint{9999}, nil)
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&entities.Book{}).Where("title = ?", "Orphaned").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_UpdateWithLinks_RollsBackFieldChanges(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "First Edition")

	_, err := repo.UpdateWithLinks(
		&entities.Book{ID: book.ID, Title: "Second Edition", Language: "en"},
		nil,
		[]uint{4242},
	)
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	stored, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Edition", stored.Title)
}

func TestRepository_UpdateCoverPath(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, repo, "Covered")

	previous, err := repo.UpdateCoverPath(book.ID, "covers/one.jpg")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = repo.UpdateCoverPath(book.ID, "covers/two.jpg")
	require.NoError(t, err)
	assert.Equal(t, "covers/one.jpg", previous)

	stored, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "covers/two.jpg", stored.CoverImagePath)

	_, err = repo.UpdateCoverPath(9999, "covers/ghost.jpg")
	assert.True(t, database.IsNotFound(err))
}
