// Package files provides database operations for book file attachments.
package files

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// ArtifactRemover deletes the stored bytes behind a file record. A missing
// artifact is reported via an error satisfying IsNotFound on the store side;
// Purge tolerates it.
type ArtifactRemover interface {
	Remove(path string) error
	IsNotFound(err error) bool
}

// Repository handles file attachment database operations.
type Repository struct {
	db      *gorm.DB
	remover ArtifactRemover
}

// NewRepository creates a new files repository. The remover may be nil when
// only metadata operations are needed (tests, read-only tools).
func NewRepository(db *gorm.DB, remover ArtifactRemover) *Repository {
	return &Repository{db: db, remover: remover}
}

// Add registers a new file attachment for a book.
func (r *Repository) Add(file *entities.File) (*entities.File, error) {
	if file.Path == "" {
		return nil, &database.ValidationError{Field: "path", Reason: "required"}
	}
	if file.Format == "" {
		return nil, &database.ValidationError{Field: "format", Reason: "required"}
	}

	var book entities.Book
	if err := r.db.First(&book, file.BookID).Error; err != nil {
		return nil, database.TranslateLookup(err, "book", file.BookID)
	}

	file.IsActive = true
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}
	if err := r.db.Create(file).Error; err != nil {
		return nil, database.TranslateCreate(err, "file", "path")
	}
	return file, nil
}

// GetByID retrieves a file record.
func (r *Repository) GetByID(id uint) (*entities.File, error) {
	var file entities.File
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, database.TranslateLookup(err, "file", id)
	}
	return &file, nil
}

// ListByBook returns the file attachments of a book. With activeOnly set,
// deactivated files are excluded, as on the public detail page.
func (r *Repository) ListByBook(bookID uint, activeOnly bool) ([]entities.File, error) {
	query := r.db.Where("book_id = ?", bookID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var files []entities.File
	err := query.Order("uploaded_at ASC").Find(&files).Error
	return files, err
}

// Deactivate logically hides a file without touching the stored artifact.
func (r *Repository) Deactivate(id uint) error {
	var file entities.File
	if err := r.db.First(&file, id).Error; err != nil {
		return database.TranslateLookup(err, "file", id)
	}
	return r.db.Model(&file).Update("is_active", false).Error
}

// Purge removes the file row and its backing artifact. Artifact removal is
// best-effort: a missing artifact or a storage failure is logged and the
// row delete still commits.
func (r *Repository) Purge(id uint) error {
	file, err := r.GetByID(id)
	if err != nil {
		return err
	}

	if r.remover != nil {
		if err := r.remover.Remove(file.Path); err != nil && !r.remover.IsNotFound(err) {
			log.Printf("Failed to remove artifact %s for file %d: %v", file.Path, id, err)
		}
	}

	return r.db.Delete(&entities.File{}, id).Error
}
