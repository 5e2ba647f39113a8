// Package authors provides database operations for author management.
package authors

import (
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new author. Author names carry no uniqueness constraint.
func (r *Repository) Create(author *entities.Author) (*entities.Author, error) {
	if author.FirstName == "" {
		return nil, &database.ValidationError{Field: "first_name", Reason: "required"}
	}
	if author.LastName == "" {
		return nil, &database.ValidationError{Field: "last_name", Reason: "required"}
	}
	if err := r.db.Create(author).Error; err != nil {
		return nil, database.TranslateCreate(err, "author", "name")
	}
	return author, nil
}

// GetByID retrieves an author by ID.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, database.TranslateLookup(err, "author", id)
	}
	return &author, nil
}

// Update applies changed fields to an existing author.
func (r *Repository) Update(author *entities.Author) (*entities.Author, error) {
	if _, err := r.GetByID(author.ID); err != nil {
		return nil, err
	}
	if author.FirstName == "" {
		return nil, &database.ValidationError{Field: "first_name", Reason: "required"}
	}
	if author.LastName == "" {
		return nil, &database.ValidationError{Field: "last_name", Reason: "required"}
	}
	if err := r.db.Save(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}

// List returns authors ordered by last then first name.
func (r *Repository) List(limit, offset int) ([]entities.Author, int64, error) {
	var authors []entities.Author
	var total int64

	if err := r.db.Model(&entities.Author{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("last_name ASC, first_name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&authors).Error
	return authors, total, err
}

// Delete removes an author. The delete is guarded: it fails with
// HasDependentsError while any book link exists, so callers surface it as
// a user-facing block rather than retrying.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.First(&author, id).Error; err != nil {
			return database.TranslateLookup(err, "author", id)
		}

		var linked int64
		if err := tx.Model(&entities.BookAuthor{}).Where("author_id = ?", id).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return &database.HasDependentsError{Entity: "author", Dependents: linked}
		}

		return tx.Delete(&author).Error
	})
}

// Count returns the total number of authors.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}
