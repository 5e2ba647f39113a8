// Package books provides database operations for the book catalog.
//
// Books use soft delete: Deactivate flips is_active and the row stays put,
// so reviews, files and log history keep a valid target. Every public
// listing and search excludes inactive books; GetByID does not, serving
// admin and audit reads.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/associations"
	"github.com/openshelf/openshelf/internal/entities"
)

// Sort orders accepted by ListActive.
const (
	SortRecent = "recent"
	SortTitle  = "title"
)

// ListFilter narrows the public catalog listing.
type ListFilter struct {
	GenreID  uint
	Language string
	Sort     string
	Limit    int
	Offset   int
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book after field validation. An empty ISBN is stored
// as NULL so the unique index only applies when an ISBN is present.
func (r *Repository) Create(book *entities.Book) (*entities.Book, error) {
	if err := r.validate(book); err != nil {
		return nil, err
	}
	if book.ISBN != nil {
		if field, err := r.isbnTaken(*book.ISBN, 0); err != nil {
			return nil, err
		} else if field {
			return nil, &database.ConflictError{Entity: "book", Field: "isbn"}
		}
	}

	book.IsActive = true
	if err := r.db.Create(book).Error; err != nil {
		return nil, database.TranslateCreate(err, "book", "isbn")
	}
	return book, nil
}

// CreateWithLinks inserts a book together with its author and genre link
// sets in one transaction. A bad author or genre id rolls the insert back,
// leaving no book row behind.
func (r *Repository) CreateWithLinks(book *entities.Book, authorIDs, genreIDs []uint) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := NewRepository(tx).Create(book); err != nil {
			return err
		}
		links := associations.NewRepository(tx)
		if err := links.ReplaceBookAuthors(book.ID, authorIDs); err != nil {
			return err
		}
		return links.ReplaceBookGenres(book.ID, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateWithLinks applies field changes and replaces both link sets in one
// transaction. Either all three commit or none do.
func (r *Repository) UpdateWithLinks(book *entities.Book, authorIDs, genreIDs []uint) (*entities.Book, error) {
	var updated *entities.Book
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if updated, err = NewRepository(tx).Update(book); err != nil {
			return err
		}
		links := associations.NewRepository(tx)
		if err := links.ReplaceBookAuthors(book.ID, authorIDs); err != nil {
			return err
		}
		return links.ReplaceBookGenres(book.ID, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID retrieves a book regardless of activation state, with its author
// and genre links and files preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("BookAuthors", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("BookAuthors.Author").
		Preload("BookGenres.Genre").
		Preload("Files").
		First(&book, id).Error
	if err != nil {
		return nil, database.TranslateLookup(err, "book", id)
	}
	return &book, nil
}

// GetActive retrieves a book for public display, rejecting inactive ones
// with NotFound.
func (r *Repository) GetActive(id uint) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, &database.NotFoundError{Entity: "book", ID: id}
	}
	return book, nil
}

// Update applies changed fields to an existing book. UpdatedAt advances via
// gorm's Save hook on every mutation.
func (r *Repository) Update(book *entities.Book) (*entities.Book, error) {
	existing, err := r.GetByID(book.ID)
	if err != nil {
		return nil, err
	}
	if err := r.validate(book); err != nil {
		return nil, err
	}
	if book.ISBN != nil {
		if taken, err := r.isbnTaken(*book.ISBN, book.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, &database.ConflictError{Entity: "book", Field: "isbn"}
		}
	}

	book.IsActive = existing.IsActive
	book.CreatedAt = existing.CreatedAt
	if err := r.db.Omit("BookAuthors", "BookGenres", "Files", "Reviews").Save(book).Error; err != nil {
		return nil, database.TranslateCreate(err, "book", "isbn")
	}
	return book, nil
}

// ListActive returns the public catalog: active books only, filtered and
// sorted per the request.
func (r *Repository) ListActive(filter ListFilter) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{}).Where("books.is_active = ?", true)

	if filter.GenreID > 0 {
		query = query.
			Joins("JOIN book_genres ON book_genres.book_id = books.id").
			Where("book_genres.genre_id = ?", filter.GenreID)
	}
	if filter.Language != "" {
		query = query.Where("books.language = ?", filter.Language)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case SortTitle:
		query = query.Order("books.title ASC")
	default:
		query = query.Order("books.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var books []entities.Book
	err := query.Find(&books).Error
	return books, total, err
}

// Search performs a case-insensitive substring match on active book titles.
func (r *Repository) Search(query string, limit, offset int) ([]entities.Book, int64, error) {
	pattern := "%" + query + "%"
	base := r.db.Model(&entities.Book{}).
		Where("is_active = ?", true).
		Where("LOWER(title) LIKE LOWER(?)", pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Order("title ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var books []entities.Book
	err := q.Find(&books).Error
	return books, total, err
}

// UpdateCoverPath stores a new cover artifact path on a book and returns
// the path it replaced, empty when the book had no cover yet.
func (r *Repository) UpdateCoverPath(id uint, path string) (string, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return "", database.TranslateLookup(err, "book", id)
	}
	previous := book.CoverImagePath
	if err := r.db.Model(&book).Update("cover_image_path", path).Error; err != nil {
		return "", err
	}
	return previous, nil
}

// Deactivate soft-deletes a book. There is no transition back.
func (r *Repository) Deactivate(id uint) error {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return database.TranslateLookup(err, "book", id)
	}
	return r.db.Model(&book).Update("is_active", false).Error
}

// AverageRating computes the mean review rating for a book in a single
// query. A book without reviews rates 0, never NULL or NaN. The value is
// derived on every read and never cached.
func (r *Repository) AverageRating(bookID uint) (float64, error) {
	var avg float64
	err := r.db.Model(&entities.Review{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// ReviewCount returns the number of reviews for a book.
func (r *Repository) ReviewCount(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// CountActive returns the number of active books.
func (r *Repository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *Repository) validate(book *entities.Book) error {
	if book.Title == "" {
		return &database.ValidationError{Field: "title", Reason: "required"}
	}
	if book.PublicationYear != 0 && (book.PublicationYear < 1000 || book.PublicationYear > 2100) {
		return &database.ValidationError{Field: "publication_year", Reason: "must be between 1000 and 2100"}
	}
	if book.ISBN != nil {
		normalized, err := NormalizeISBN(*book.ISBN)
		if err != nil {
			return err
		}
		if normalized == "" {
			book.ISBN = nil
		} else {
			book.ISBN = &normalized
		}
	}
	return nil
}

func (r *Repository) isbnTaken(isbn string, excludeID uint) (bool, error) {
	var existing entities.Book
	query := r.db.Where("isbn = ?", isbn)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// NormalizeISBN strips separators and validates the 10-or-13-digit format.
// An empty input normalizes to empty, meaning "no ISBN".
func NormalizeISBN(isbn string) (string, error) {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	if cleaned == "" {
		return "", nil
	}
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return "", &database.ValidationError{Field: "isbn", Reason: "must contain 10 or 13 digits"}
	}
	for _, ch := range cleaned {
		if ch < '0' || ch > '9' {
			return "", &database.ValidationError{Field: "isbn", Reason: "must contain only digits"}
		}
	}
	return cleaned, nil
}
