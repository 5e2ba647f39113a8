package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/database/favorites"
	"github.com/openshelf/openshelf/internal/entities"
)

type FavoritesController struct {
	favorites *favorites.Repository
	recorder  *activity.Repository
}

func NewFavoritesController(favoritesRepo *favorites.Repository, recorder *activity.Repository) *FavoritesController {
	return &FavoritesController{favorites: favoritesRepo, recorder: recorder}
}

// List returns the caller's favorite books, newest first.
// GET /api/favorites (auth)
func (fc *FavoritesController) List(c *gin.Context) {
	user := CurrentUser(c)

	items, err := fc.favorites.ListByUser(user.ID)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add marks a book as a favorite. Adding an already-favorited book is a
// no-op and is not recorded a second time.
// POST /api/books/:id/favorite (auth)
func (fc *FavoritesController) Add(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)

	created, err := fc.favorites.Add(user.ID, bookID)
	if err != nil {
		respondStoreError(c, err, "add favorite")
		return
	}

	if created {
		recordActivity(fc.recorder, c, entities.ActionAddFavorite, ref(user.ID), ref(bookID), nil)
	}
	respondSuccess(c, "book added to favorites")
}

// Remove unmarks a favorite.
// DELETE /api/books/:id/favorite (auth)
func (fc *FavoritesController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)

	if err := fc.favorites.Remove(user.ID, bookID); err != nil {
		respondStoreError(c, err, "remove favorite")
		return
	}

	recordActivity(fc.recorder, c, entities.ActionRemoveFavorite, ref(user.ID), ref(bookID), nil)
	respondSuccess(c, "book removed from favorites")
}
