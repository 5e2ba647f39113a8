package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/entities"
)

type UsersController struct {
	users *users.Repository
}

func NewUsersController(usersRepo *users.Repository) *UsersController {
	return &UsersController{users: usersRepo}
}

type userView struct {
	ID          uint              `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Role        entities.UserRole `json:"role"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   string            `json:"created_at"`
	LastLoginAt string            `json:"last_login_at,omitempty"`
}

func buildUserView(u *entities.User) userView {
	view := userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.LastLoginAt != nil {
		view.LastLoginAt = u.LastLoginAt.Format("2006-01-02 15:04:05")
	}
	return view
}

// List returns registered users, newest first.
// GET /api/admin/users (admin)
func (uc *UsersController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 50)

	items, total, err := uc.users.List(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	views := make([]userView, 0, len(items))
	for i := range items {
		views = append(views, buildUserView(&items[i]))
	}
	respondPaginated(c, views, total, limit, offset)
}

// Get returns one user account.
// GET /api/admin/users/:id (admin)
func (uc *UsersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, buildUserView(user))
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive toggles account activation. Admins cannot deactivate themselves.
// POST /api/admin/users/:id/activation (admin)
func (uc *UsersController) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	acting := CurrentUser(c)
	user, err := uc.users.SetActive(id, *req.IsActive, acting.ID)
	if err != nil {
		respondStoreError(c, err, "toggle user activation")
		return
	}
	c.JSON(http.StatusOK, buildUserView(user))
}

// Delete removes a user account together with their favorites and reviews.
// Log entries referencing the user remain for the audit trail.
// DELETE /api/admin/users/:id (admin)
func (uc *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acting := CurrentUser(c)
	if id == acting.ID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot delete own account"})
		return
	}

	if err := uc.users.Delete(id); err != nil {
		respondStoreError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted")
}
