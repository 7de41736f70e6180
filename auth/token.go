package auth

import (
	"postgram/models"
	"strings"

	"github.com/gin-gonic/gin"
)

const tokenPrefix = "Token "

// CurrentUser resolves the Authorization header to a user.
// A zero user ID means the request is not authenticated.
func CurrentUser(c *gin.Context) (user models.User) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, tokenPrefix) {
		return
	}
	return models.TokenUser(strings.TrimPrefix(header, tokenPrefix))
}
