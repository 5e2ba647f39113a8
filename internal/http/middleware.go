package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/entities"
)

const currentUserKey = "current_user"

// IdentityHeader carries the authenticated user id, set by the session
// collaborator in front of this API. The core trusts it and only resolves
// the id to an account.
const IdentityHeader = "X-User-ID"

// Identity resolves the collaborator-supplied user id and stores the account
// in the request context. Requests without the header proceed anonymously.
func Identity(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(IdentityHeader)
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid identity"})
			return
		}

		user, err := service.ByID(uint(id))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "account is deactivated"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin accounts.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *entities.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}
