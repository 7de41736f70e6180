package handlers

import (
	"net/http"
	"postgram/db"
	"postgram/models"

	"github.com/gin-gonic/gin"
)

// LikeAdd creates the caller's like on a post. The existence pre-check gives
// the friendly error message; the composite primary key on likes is what
// actually rejects a racing duplicate.
func LikeAdd(c *gin.Context, user *models.User) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	existing := models.Like{}
	db.Instance.Limit(1).Find(&existing, "user_id = ? AND post_id = ?", user.ID, post.ID)
	if existing.UserID != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post is already liked by this user"})
		return
	}
	like := models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := db.Instance.Create(&like).Error; err != nil {
		// Lost the race - the constraint caught a concurrent duplicate
		c.JSON(http.StatusBadRequest, gin.H{"error": "post is already liked by this user"})
		return
	}
	c.Status(http.StatusCreated)
}

func LikeDelete(c *gin.Context, user *models.User) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	like := models.Like{}
	db.Instance.Limit(1).Find(&like, "user_id = ? AND post_id = ?", user.ID, post.ID)
	if like.UserID == 0 {
		c.JSON(http.StatusNotFound, Response{"like from this user not found"})
		return
	}
	if err := db.Instance.Where("user_id = ? AND post_id = ?", user.ID, post.ID).
		Delete(&models.Like{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.Status(http.StatusNoContent)
}
