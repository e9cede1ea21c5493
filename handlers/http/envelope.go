package httpHandler

import (
	"net/http"

	"dream-journal/apperrors"
	"dream-journal/entities"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserResponse is the public identity shape; the password hash and internal
// bookkeeping never appear in auth responses.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func publicUser(user *entities.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   apperrors.Message(err),
	})
}
