package entities

import (
	"strings"
	"time"
)

type Author struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FirstName  string     `gorm:"size:100;not null" json:"first_name"`
	LastName   string     `gorm:"size:100;not null" json:"last_name"`
	MiddleName string     `gorm:"size:100" json:"middle_name,omitempty"`
	Bio        string     `gorm:"type:text" json:"bio,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	DeathDate  *time.Time `json:"death_date,omitempty"`
	Country    string     `gorm:"size:100" json:"country,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

// FullName joins first, middle and last name, skipping the middle name when
// it is empty.
func (a *Author) FullName() string {
	parts := []string{a.FirstName}
	if a.MiddleName != "" {
		parts = append(parts, a.MiddleName)
	}
	parts = append(parts, a.LastName)
	return strings.TrimSpace(strings.Join(parts, " "))
}

type Genre struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Genre) TableName() string {
	return "genres"
}

// Book is the central catalog record. Books are never physically removed:
// deactivation flips IsActive and the row stays behind as a foreign-key
// target for reviews, files and history.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:255;not null" json:"title"`
	OriginalTitle   string    `gorm:"size:255" json:"original_title,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	ISBN            *string   `gorm:"uniqueIndex;size:20" json:"isbn,omitempty"`
	Language        string    `gorm:"size:10;default:'uk'" json:"language"`
	Publisher       string    `gorm:"size:200" json:"publisher,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	CoverImagePath  string    `gorm:"size:500" json:"cover_image_path,omitempty"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	BookAuthors []BookAuthor `gorm:"foreignKey:BookID" json:"-"`
	BookGenres  []BookGenre  `gorm:"foreignKey:BookID" json:"-"`
	Files       []File       `gorm:"foreignKey:BookID" json:"files,omitempty"`
	Reviews     []Review     `gorm:"foreignKey:BookID" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// BookAuthor links a book to one of its authors. OrderIndex records the
// presentation order supplied when the author list was last replaced.
type BookAuthor struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BookID     uint   `gorm:"uniqueIndex:idx_book_author;not null" json:"book_id"`
	AuthorID   uint   `gorm:"uniqueIndex:idx_book_author;not null" json:"author_id"`
	Role       string `gorm:"size:50;default:'author'" json:"role"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`

	Author Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

type BookGenre struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	BookID  uint `gorm:"uniqueIndex:idx_book_genre;not null" json:"book_id"`
	GenreID uint `gorm:"uniqueIndex:idx_book_genre;not null" json:"genre_id"`

	Genre Genre `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}

// File is a downloadable attachment of a book (one book, many formats).
// Files deactivate independently of their book; Purge removes the row and
// best-effort removes the stored artifact.
type File struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookID     uint      `gorm:"index;not null" json:"book_id"`
	Path       string    `gorm:"size:500;not null" json:"path"`
	Format     string    `gorm:"size:10;not null" json:"format"`
	Size       int64     `json:"size"`
	Checksum   string    `gorm:"size:64" json:"checksum,omitempty"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (File) TableName() string {
	return "files"
}
