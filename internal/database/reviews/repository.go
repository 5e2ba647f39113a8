// Package reviews provides database operations for book reviews.
//
// Each user may review a book once; the (user, book) pair is unique and a
// second create fails with ConflictError before the insert is attempted.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review. Rating must fall within [1, 5]; the composite
// unique index backs the one-per-(user, book) rule under races.
func (r *Repository) Create(review *entities.Review) (*entities.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, &database.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, review.BookID).Error; err != nil {
			return database.TranslateLookup(err, "book", review.BookID)
		}

		var existing entities.Review
		err := tx.Where("user_id = ? AND book_id = ?", review.UserID, review.BookID).First(&existing).Error
		if err == nil {
			return &database.ConflictError{Entity: "review", Field: "user_book"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &database.ConflictError{Entity: "review", Field: "user_book"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetByID retrieves a review.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, database.TranslateLookup(err, "review", id)
	}
	return &review, nil
}

// Update lets the owning user change rating, title and text.
func (r *Repository) Update(id uint, actingUser *entities.User, rating int, title, text string) (*entities.Review, error) {
	review, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actingUser.ID {
		return nil, &database.ForbiddenError{Action: "edit this review"}
	}
	if rating < 1 || rating > 5 {
		return nil, &database.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	review.Rating = rating
	review.Title = title
	review.Text = text
	if err := r.db.Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Only the owning user or an admin may delete it.
func (r *Repository) Delete(id uint, actingUser *entities.User) error {
	review, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if review.UserID != actingUser.ID && !actingUser.IsAdmin() {
		return &database.ForbiddenError{Action: "delete this review"}
	}
	return r.db.Delete(review).Error
}

// ListByBook returns a book's reviews, newest first.
func (r *Repository) ListByBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// GetByUserAndBook returns the user's review of a book, if any.
func (r *Repository) GetByUserAndBook(userID, bookID uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&review).Error
	if err != nil {
		return nil, database.TranslateLookup(err, "review", 0)
	}
	return &review, nil
}

// Count returns the total number of reviews.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).Count(&count).Error
	return count, err
}
