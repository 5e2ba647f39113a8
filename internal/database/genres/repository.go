// Package genres provides database operations for genre management.
package genres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new genre. The name is unique across all genres.
func (r *Repository) Create(genre *entities.Genre) (*entities.Genre, error) {
	if genre.Name == "" {
		return nil, &database.ValidationError{Field: "name", Reason: "required"}
	}

	var existing entities.Genre
	err := r.db.Where("name = ?", genre.Name).First(&existing).Error
	if err == nil {
		return nil, &database.ConflictError{Entity: "genre", Field: "name"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Create(genre).Error; err != nil {
		return nil, database.TranslateCreate(err, "genre", "name")
	}
	return genre, nil
}

// GetByID retrieves a genre by ID.
func (r *Repository) GetByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, database.TranslateLookup(err, "genre", id)
	}
	return &genre, nil
}

// Update renames or re-describes a genre, keeping the name unique.
func (r *Repository) Update(genre *entities.Genre) (*entities.Genre, error) {
	if _, err := r.GetByID(genre.ID); err != nil {
		return nil, err
	}
	if genre.Name == "" {
		return nil, &database.ValidationError{Field: "name", Reason: "required"}
	}

	var existing entities.Genre
	err := r.db.Where("name = ? AND id <> ?", genre.Name, genre.ID).First(&existing).Error
	if err == nil {
		return nil, &database.ConflictError{Entity: "genre", Field: "name"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Save(genre).Error; err != nil {
		return nil, database.TranslateCreate(err, "genre", "name")
	}
	return genre, nil
}

// List returns genres in alphabetical order.
func (r *Repository) List(limit, offset int) ([]entities.Genre, int64, error) {
	var genres []entities.Genre
	var total int64

	if err := r.db.Model(&entities.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&genres).Error
	return genres, total, err
}

// Delete removes a genre, guarded by the absence of book links.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var genre entities.Genre
		if err := tx.First(&genre, id).Error; err != nil {
			return database.TranslateLookup(err, "genre", id)
		}

		var linked int64
		if err := tx.Model(&entities.BookGenre{}).Where("genre_id = ?", id).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return &database.HasDependentsError{Entity: "genre", Dependents: linked}
		}

		return tx.Delete(&genre).Error
	})
}
