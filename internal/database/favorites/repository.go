// Package favorites provides database operations for user book favorites.
//
// Adding a favorite is idempotent: a second Add for the same (user, book)
// pair succeeds without creating a duplicate row.
package favorites

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add records a favorite. Returns (created=false, nil) when the pair already
// exists; the composite unique index resolves concurrent adds to one row.
func (r *Repository) Add(userID, bookID uint) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return database.TranslateLookup(err, "book", bookID)
		}

		var existing entities.Favorite
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		favorite := entities.Favorite{
			UserID:  userID,
			BookID:  bookID,
			AddedAt: time.Now().UTC(),
		}
		if err := tx.Create(&favorite).Error; err != nil {
			// Lost a race with a concurrent add of the same pair.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// Remove deletes a favorite, failing with NotFound when the pair is absent.
func (r *Repository) Remove(userID, bookID uint) error {
	result := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &database.NotFoundError{Entity: "favorite", ID: bookID}
	}
	return nil
}

// Exists reports whether the user has favorited the book.
func (r *Repository) Exists(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns the user's favorites, newest first, restricted to
// active books as on the favorites page.
func (r *Repository) ListByUser(userID uint) ([]entities.Favorite, error) {
	var favorites []entities.Favorite
	err := r.db.Preload("Book").
		Joins("JOIN books ON books.id = favorites.book_id").
		Where("favorites.user_id = ? AND books.is_active = ?", userID, true).
		Order("favorites.added_at DESC").
		Find(&favorites).Error
	return favorites, err
}
