package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/associations"
	"github.com/openshelf/openshelf/internal/database/authors"
	"github.com/openshelf/openshelf/internal/entities"
)

type AuthorsController struct {
	authors      *authors.Repository
	associations *associations.Repository
}

func NewAuthorsController(authorsRepo *authors.Repository, associationsRepo *associations.Repository) *AuthorsController {
	return &AuthorsController{authors: authorsRepo, associations: associationsRepo}
}

// List returns authors ordered by name.
// GET /api/authors
func (ac *AuthorsController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 20)

	items, total, err := ac.authors.List(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	respondPaginated(c, items, total, limit, offset)
}

type authorDetail struct {
	*entities.Author
	FullName string          `json:"full_name"`
	Books    []entities.Book `json:"books"`
}

// Get returns an author with their active books.
// GET /api/authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.authors.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get author")
		return
	}
	authorBooks, err := ac.associations.BooksByAuthor(id, true)
	if err != nil {
		respondInternalError(c, err, "get author books")
		return
	}

	c.JSON(http.StatusOK, authorDetail{
		Author:   author,
		FullName: author.FullName(),
		Books:    authorBooks,
	})
}

type authorRequest struct {
	FirstName  string     `json:"first_name" binding:"required"`
	LastName   string     `json:"last_name" binding:"required"`
	MiddleName string     `json:"middle_name"`
	Bio        string     `json:"bio"`
	BirthDate  *time.Time `json:"birth_date"`
	DeathDate  *time.Time `json:"death_date"`
	Country    string     `json:"country"`
}

func (req *authorRequest) toEntity() *entities.Author {
	return &entities.Author{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Bio:        req.Bio,
		BirthDate:  req.BirthDate,
		DeathDate:  req.DeathDate,
		Country:    req.Country,
	}
}

// Create adds an author.
// POST /api/authors (admin)
func (ac *AuthorsController) Create(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	author, err := ac.authors.Create(req.toEntity())
	if err != nil {
		respondStoreError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}

// Update edits an author.
// PUT /api/authors/:id (admin)
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	author := req.toEntity()
	author.ID = id
	author, err := ac.authors.Update(author)
	if err != nil {
		respondStoreError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Delete removes an author; blocked while any book still links to them.
// DELETE /api/authors/:id (admin)
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.authors.Delete(id); err != nil {
		respondStoreError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}
