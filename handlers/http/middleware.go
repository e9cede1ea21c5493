package httpHandler

import (
	"strings"

	"dream-journal/apperrors"
	"dream-journal/auth"
	"dream-journal/entities"
	"dream-journal/repositories"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthMiddleware verifies bearer tokens and attaches the caller to the
// request context before protected handlers run.
type AuthMiddleware struct {
	tokens *auth.TokenService
	users  repositories.UserRepository
}

func NewAuthMiddleware(tokens *auth.TokenService, users repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Protect rejects requests without a valid token. A token whose user no
// longer exists is rejected too: stale identities fail closed.
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			respondError(c, apperrors.Unauthorized("Not authorized to access this route"))
			return
		}

		userID, err := m.tokens.Parse(tokenString)
		if err != nil {
			respondError(c, apperrors.Unauthorized("Not authorized to access this route"))
			return
		}

		user, err := m.users.GetByID(userID)
		if err != nil {
			respondError(c, apperrors.Unauthorized("Not authorized to access this route"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// Authorize gates a route on the caller's role.
func (m *AuthMiddleware) Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			respondError(c, apperrors.Unauthorized("Not authorized to access this route"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, apperrors.Forbidden("User role '%s' is not authorized to access this route", user.Role))
	}
}

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *gin.Context) *entities.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entities.User)
	return user
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "none" {
		return cookie
	}
	return ""
}
