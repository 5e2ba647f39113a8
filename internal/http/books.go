package http

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/database/associations"
	"github.com/openshelf/openshelf/internal/database/books"
	"github.com/openshelf/openshelf/internal/database/files"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/storage"
)

type BooksController struct {
	books        *books.Repository
	associations *associations.Repository
	files        *files.Repository
	recorder     *activity.Repository
	artifacts    *storage.Local
}

func NewBooksController(
	booksRepo *books.Repository,
	associationsRepo *associations.Repository,
	filesRepo *files.Repository,
	recorder *activity.Repository,
	artifacts *storage.Local,
) *BooksController {
	return &BooksController{
		books:        booksRepo,
		associations: associationsRepo,
		files:        filesRepo,
		recorder:     recorder,
		artifacts:    artifacts,
	}
}

// List returns the public catalog of active books.
// GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 20)

	filter := books.ListFilter{
		Language: c.Query("language"),
		Sort:     c.DefaultQuery("sort", books.SortRecent),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("genre"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.GenreID = uint(id)
		}
	}

	items, total, err := bc.books.ListActive(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	respondPaginated(c, items, total, limit, offset)
}

// Search matches active book titles by substring.
// GET /api/books/search
func (bc *BooksController) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondBadRequest(c, "query is required")
		return
	}
	limit, offset := parsePagination(c, 20)

	items, total, err := bc.books.Search(query, limit, offset)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	respondPaginated(c, items, total, limit, offset)
}

type bookDetail struct {
	*entities.Book
	Authors       []entities.Author `json:"authors"`
	Genres        []entities.Genre  `json:"genres"`
	Files         []entities.File   `json:"files"`
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int64             `json:"review_count"`
}

// Get returns an active book's detail page data and records the view for
// authenticated requests.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetActive(id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}

	detail, err := bc.buildDetail(book)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	if user := CurrentUser(c); user != nil {
		recordActivity(bc.recorder, c, entities.ActionView, ref(user.ID), ref(book.ID), nil)
	}
	c.JSON(http.StatusOK, detail)
}

// GetAny returns a book regardless of activation, for admin and audit use.
// GET /api/admin/books/:id
func (bc *BooksController) GetAny(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}

	detail, err := bc.buildDetail(book)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (bc *BooksController) buildDetail(book *entities.Book) (*bookDetail, error) {
	authors, err := bc.associations.AuthorsOf(book.ID)
	if err != nil {
		return nil, err
	}
	genres, err := bc.associations.GenresOf(book.ID)
	if err != nil {
		return nil, err
	}
	activeFiles, err := bc.files.ListByBook(book.ID, true)
	if err != nil {
		return nil, err
	}
	rating, err := bc.books.AverageRating(book.ID)
	if err != nil {
		return nil, err
	}
	reviewCount, err := bc.books.ReviewCount(book.ID)
	if err != nil {
		return nil, err
	}

	return &bookDetail{
		Book:          book,
		Authors:       authors,
		Genres:        genres,
		Files:         activeFiles,
		AverageRating: rating,
		ReviewCount:   reviewCount,
	}, nil
}

type bookRequest struct {
	Title           string `json:"title" binding:"required"`
	OriginalTitle   string `json:"original_title"`
	Description     string `json:"description"`
	ISBN            string `json:"isbn"`
	Language        string `json:"language"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	AuthorIDs       []uint `json:"author_ids"`
	GenreIDs        []uint `json:"genre_ids"`
}

func (req *bookRequest) toEntity() *entities.Book {
	book := &entities.Book{
		Title:           req.Title,
		OriginalTitle:   req.OriginalTitle,
		Description:     req.Description,
		Language:        req.Language,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
	}
	if req.ISBN != "" {
		book.ISBN = &req.ISBN
	}
	return book
}

// Create adds a book with its author and genre links.
// POST /api/books (admin)
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.CreateWithLinks(req.toEntity(), req.AuthorIDs, req.GenreIDs)
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	user := CurrentUser(c)
	recordActivity(bc.recorder, c, entities.ActionCreateBook, ref(user.ID), ref(book.ID), nil)
	respondCreated(c, book)
}

// Update edits book fields and replaces the full author/genre link sets.
// PUT /api/books/:id (admin)
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := req.toEntity()
	book.ID = id
	book, err := bc.books.UpdateWithLinks(book, req.AuthorIDs, req.GenreIDs)
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	user := CurrentUser(c)
	recordActivity(bc.recorder, c, entities.ActionEditBook, ref(user.ID), ref(id), nil)
	c.JSON(http.StatusOK, book)
}

// allowedCoverFormats lists the accepted cover image extensions.
var allowedCoverFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// UploadCover stores a new cover image for a book and removes the artifact
// it replaces.
// POST /api/admin/books/:id/cover (admin, multipart)
func (bc *BooksController) UploadCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := bc.books.GetByID(id); err != nil {
		respondStoreError(c, err, "upload cover")
		return
	}

	upload, err := c.FormFile("cover")
	if err != nil {
		respondBadRequest(c, "cover file is required")
		return
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Filename), "."))
	if !allowedCoverFormats[format] {
		respondBadRequest(c, "unsupported cover format: "+format)
		return
	}

	src, err := upload.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	artifact, err := bc.artifacts.Save("covers", upload.Filename, src)
	src.Close()
	if err != nil {
		respondInternalError(c, err, "store cover")
		return
	}

	previous, err := bc.books.UpdateCoverPath(id, artifact.Path)
	if err != nil {
		respondStoreError(c, err, "upload cover")
		return
	}
	if previous != "" {
		if err := bc.artifacts.Remove(previous); err != nil && !bc.artifacts.IsNotFound(err) {
			log.Printf("Failed to remove replaced cover %s: %v", previous, err)
		}
	}

	user := CurrentUser(c)
	recordActivity(bc.recorder, c, entities.ActionEditBook, ref(user.ID), ref(id), nil)
	c.JSON(http.StatusOK, gin.H{"cover_image_path": artifact.Path})
}

// Delete soft-deletes a book: it leaves the catalog but the row, its files,
// reviews and history stay behind.
// DELETE /api/books/:id (admin)
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.Deactivate(id); err != nil {
		respondStoreError(c, err, "deactivate book")
		return
	}

	user := CurrentUser(c)
	recordActivity(bc.recorder, c, entities.ActionDeleteBook, ref(user.ID), ref(id), nil)
	respondSuccess(c, "book deactivated")
}

// Download serves an active file of an active book and records the download.
// GET /api/books/:id/files/:fileID/download (authenticated)
func (bc *BooksController) Download(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "fileID")
	if !ok {
		return
	}

	if _, err := bc.books.GetActive(bookID); err != nil {
		respondStoreError(c, err, "download file")
		return
	}
	file, err := bc.files.GetByID(fileID)
	if err != nil {
		respondStoreError(c, err, "download file")
		return
	}
	if file.BookID != bookID || !file.IsActive {
		respondNotFound(c, "file")
		return
	}

	user := CurrentUser(c)
	recordActivity(bc.recorder, c, entities.ActionDownload, ref(user.ID), ref(bookID), ref(fileID))

	fullPath := bc.artifacts.FullPath(file.Path)
	c.FileAttachment(fullPath, filepath.Base(file.Path))
}
