package handlers

import (
	"net/http"
	"postgram/db"
	"postgram/models"

	"github.com/gin-gonic/gin"
)

type UserCredentialsRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Password string `form:"password" json:"password" binding:"required"`
}

func UserRegister(c *gin.Context) {
	r := UserCredentialsRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := models.UserCreate(r.Username, r.Password)
	if err != nil {
		// Most likely a taken username
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is not available"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Name})
}

// TokenAuth exchanges credentials for a long-lived API token.
// The same token is handed out on repeated logins.
func TokenAuth(c *gin.Context) {
	r := UserCredentialsRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := models.UserLogin(r.Username, r.Password)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to log in with provided credentials"})
		return
	}
	token := models.Token{}
	db.Instance.Limit(1).Find(&token, "user_id = ?", user.ID)
	if token.ID == 0 {
		var err error
		if token, err = models.TokenCreate(user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, DBError1Response)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"token": token.Key})
}
