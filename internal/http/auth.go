package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/entities"
)

type AuthController struct {
	service  *auth.Service
	recorder *activity.Repository
}

func NewAuthController(service *auth.Service, recorder *activity.Repository) *AuthController {
	return &AuthController{service: service, recorder: recorder}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a new user account.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Register(req.Username, req.Email, req.Password, req.FirstName, req.LastName, entities.UserRoleUser)
	if err != nil {
		respondStoreError(c, err, "register user")
		return
	}

	recordActivity(ac.recorder, c, entities.ActionRegister, ref(user.ID), nil, nil)
	respondCreated(c, user)
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials. Issuing a session for the returned user is
// the collaborator's job; the core only answers whether the login is valid.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Authenticate(req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
		case errors.Is(err, auth.ErrAccountInactive):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is deactivated"})
		default:
			respondInternalError(c, err, "login")
		}
		return
	}

	recordActivity(ac.recorder, c, entities.ActionLogin, ref(user.ID), nil, nil)
	c.JSON(http.StatusOK, user)
}

// Logout records the logout action; the collaborator drops the session.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	user := CurrentUser(c)
	recordActivity(ac.recorder, c, entities.ActionLogout, ref(user.ID), nil, nil)
	respondSuccess(c, "logged out")
}
