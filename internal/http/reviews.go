package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/database/reviews"
	"github.com/openshelf/openshelf/internal/entities"
)

type ReviewsController struct {
	reviews  *reviews.Repository
	recorder *activity.Repository
}

func NewReviewsController(reviewsRepo *reviews.Repository, recorder *activity.Repository) *ReviewsController {
	return &ReviewsController{reviews: reviewsRepo, recorder: recorder}
}

type reviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// ListByBook returns a book's reviews, newest first.
// GET /api/books/:id/reviews
func (rc *ReviewsController) ListByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := rc.reviews.ListByBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create adds the caller's review of a book. A second review of the same
// book by the same user is rejected with a conflict.
// POST /api/books/:id/reviews (auth)
func (rc *ReviewsController) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := rc.reviews.Create(&entities.Review{
		UserID: user.ID,
		BookID: bookID,
		Rating: req.Rating,
		Title:  req.Title,
		Text:   req.Text,
	})
	if err != nil {
		respondStoreError(c, err, "create review")
		return
	}

	recordActivity(rc.recorder, c, entities.ActionAddReview, ref(user.ID), ref(bookID), nil)
	respondCreated(c, review)
}

// Update changes the caller's own review.
// PUT /api/reviews/:id (auth)
func (rc *ReviewsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := rc.reviews.Update(id, user, req.Rating, req.Title, req.Text)
	if err != nil {
		respondStoreError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete removes a review. Owners may delete their own, admins any.
// DELETE /api/reviews/:id (auth)
func (rc *ReviewsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)

	if err := rc.reviews.Delete(id, user); err != nil {
		respondStoreError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}
