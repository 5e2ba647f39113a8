package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/associations"
	"github.com/openshelf/openshelf/internal/database/genres"
	"github.com/openshelf/openshelf/internal/entities"
)

type GenresController struct {
	genres       *genres.Repository
	associations *associations.Repository
}

func NewGenresController(genresRepo *genres.Repository, associationsRepo *associations.Repository) *GenresController {
	return &GenresController{genres: genresRepo, associations: associationsRepo}
}

// List returns genres alphabetically.
// GET /api/genres
func (gc *GenresController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 20)

	items, total, err := gc.genres.List(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	respondPaginated(c, items, total, limit, offset)
}

type genreDetail struct {
	*entities.Genre
	Books []entities.Book `json:"books"`
}

// Get returns a genre with its active books.
// GET /api/genres/:id
func (gc *GenresController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.genres.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get genre")
		return
	}
	genreBooks, err := gc.associations.BooksByGenre(id, true)
	if err != nil {
		respondInternalError(c, err, "get genre books")
		return
	}

	c.JSON(http.StatusOK, genreDetail{Genre: genre, Books: genreBooks})
}

type genreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create adds a genre with a unique name.
// POST /api/genres (admin)
func (gc *GenresController) Create(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := gc.genres.Create(&entities.Genre{Name: req.Name, Description: req.Description})
	if err != nil {
		respondStoreError(c, err, "create genre")
		return
	}
	respondCreated(c, genre)
}

// Update edits a genre.
// PUT /api/genres/:id (admin)
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := gc.genres.Update(&entities.Genre{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		respondStoreError(c, err, "update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Delete removes a genre; blocked while any book carries it.
// DELETE /api/genres/:id (admin)
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := gc.genres.Delete(id); err != nil {
		respondStoreError(c, err, "delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}
