package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/books"
	"github.com/openshelf/openshelf/internal/database/files"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/storage"
)

// allowedFormats lists the accepted book file extensions.
var allowedFormats = map[string]bool{
	"pdf":  true,
	"epub": true,
	"fb2":  true,
	"mobi": true,
	"txt":  true,
	"djvu": true,
}

type FilesController struct {
	files     *files.Repository
	books     *books.Repository
	artifacts *storage.Local
}

func NewFilesController(filesRepo *files.Repository, booksRepo *books.Repository, artifacts *storage.Local) *FilesController {
	return &FilesController{files: filesRepo, books: booksRepo, artifacts: artifacts}
}

// Upload stores one or more book files and registers their metadata.
// POST /api/books/:id/files (admin, multipart)
func (fc *FilesController) Upload(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := fc.books.GetByID(bookID); err != nil {
		respondStoreError(c, err, "upload files")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "invalid multipart form")
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		respondBadRequest(c, "no files supplied")
		return
	}

	var saved []entities.File
	for _, upload := range uploads {
		format := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Filename), "."))
		if !allowedFormats[format] {
			respondBadRequest(c, "unsupported format: "+format)
			return
		}

		src, err := upload.Open()
		if err != nil {
			respondInternalError(c, err, "open upload")
			return
		}
		artifact, err := fc.artifacts.Save("books", upload.Filename, src)
		src.Close()
		if err != nil {
			respondInternalError(c, err, "store upload")
			return
		}

		file, err := fc.files.Add(&entities.File{
			BookID:   bookID,
			Path:     artifact.Path,
			Format:   format,
			Size:     artifact.Size,
			Checksum: artifact.Checksum,
		})
		if err != nil {
			respondStoreError(c, err, "register file")
			return
		}
		saved = append(saved, *file)
	}

	respondCreated(c, saved)
}

// List returns every file of a book, active or not, for admin management.
// GET /api/admin/books/:id/files (admin)
func (fc *FilesController) List(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := fc.files.ListByBook(bookID, false)
	if err != nil {
		respondInternalError(c, err, "list files")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Deactivate hides a file from the public detail page without touching the
// stored artifact.
// POST /api/files/:id/deactivate (admin)
func (fc *FilesController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := fc.files.Deactivate(id); err != nil {
		respondStoreError(c, err, "deactivate file")
		return
	}
	respondSuccess(c, "file deactivated")
}

// Purge removes the file record and best-effort removes its artifact.
// DELETE /api/files/:id (admin)
func (fc *FilesController) Purge(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := fc.files.Purge(id); err != nil {
		respondStoreError(c, err, "purge file")
		return
	}
	respondSuccess(c, "file removed")
}
