// Package associations manages the book↔author and book↔genre link tables.
//
// Replacement is full, not incremental: the prior set of links for a book is
// atomically swapped for the new one in a single transaction, the same
// delete-all/insert-all discipline the edit flow has always had. Duplicate
// ids in the input are deduplicated; for authors the first occurrence keeps
// its position in the supplied order.
package associations

import (
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles book-author and book-genre link operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new associations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceBookAuthors swaps the complete author list of a book. OrderIndex
// follows the supplied order; every referenced author must exist.
func (r *Repository) ReplaceBookAuthors(bookID uint, authorIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return database.TranslateLookup(err, "book", bookID)
		}

		ids := dedup(authorIDs)
		for _, id := range ids {
			var author entities.Author
			if err := tx.First(&author, id).Error; err != nil {
				return database.TranslateLookup(err, "author", id)
			}
		}

		if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookAuthor{}).Error; err != nil {
			return err
		}
		for i, id := range ids {
			link := entities.BookAuthor{
				BookID:     bookID,
				AuthorID:   id,
				Role:       "author",
				OrderIndex: i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return database.TranslateCreate(err, "book_author", "author_id")
			}
		}

		return tx.Model(&book).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
}

// ReplaceBookGenres swaps the complete genre set of a book.
func (r *Repository) ReplaceBookGenres(bookID uint, genreIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return database.TranslateLookup(err, "book", bookID)
		}

		ids := dedup(genreIDs)
		for _, id := range ids {
			var genre entities.Genre
			if err := tx.First(&genre, id).Error; err != nil {
				return database.TranslateLookup(err, "genre", id)
			}
		}

		if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		for _, id := range ids {
			link := entities.BookGenre{BookID: bookID, GenreID: id}
			if err := tx.Create(&link).Error; err != nil {
				return database.TranslateCreate(err, "book_genre", "genre_id")
			}
		}

		return tx.Model(&book).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
}

// AuthorsOf returns a book's authors in presentation order.
func (r *Repository) AuthorsOf(bookID uint) ([]entities.Author, error) {
	var links []entities.BookAuthor
	err := r.db.Preload("Author").
		Where("book_id = ?", bookID).
		Order("order_index ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	authors := make([]entities.Author, 0, len(links))
	for _, link := range links {
		authors = append(authors, link.Author)
	}
	return authors, nil
}

// GenresOf returns a book's genres.
func (r *Repository) GenresOf(bookID uint) ([]entities.Genre, error) {
	var links []entities.BookGenre
	err := r.db.Preload("Genre").Where("book_id = ?", bookID).Find(&links).Error
	if err != nil {
		return nil, err
	}

	genres := make([]entities.Genre, 0, len(links))
	for _, link := range links {
		genres = append(genres, link.Genre)
	}
	return genres, nil
}

// BooksByAuthor lists an author's books, restricted to active ones when the
// listing is public.
func (r *Repository) BooksByAuthor(authorID uint, activeOnly bool) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{}).
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", authorID)
	if activeOnly {
		query = query.Where("books.is_active = ?", true)
	}

	var books []entities.Book
	err := query.Order("books.title ASC").Find(&books).Error
	return books, err
}

// BooksByGenre lists the books of a genre, restricted to active ones when
// the listing is public.
func (r *Repository) BooksByGenre(genreID uint, activeOnly bool) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{}).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID)
	if activeOnly {
		query = query.Where("books.is_active = ?", true)
	}

	var books []entities.Book
	err := query.Order("books.title ASC").Find(&books).Error
	return books, err
}

// dedup drops repeated ids, keeping first-occurrence order.
func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
