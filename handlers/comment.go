package handlers

import (
	"net/http"
	"postgram/db"
	"postgram/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	Text string `form:"text" json:"text" binding:"required,max=256"`
}

// commentID reads the comment_id query parameter.
// Its absence is reported as 404, not 400.
func commentID(c *gin.Context) (uint64, bool) {
	param := c.Query("comment_id")
	if param == "" {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func CommentAdd(c *gin.Context, user *models.User) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	r := CommentRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment := models.Comment{
		UserID: user.ID,
		PostID: post.ID,
		Text:   r.Text,
	}
	if err := db.Instance.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	comment.User = *user
	c.JSON(http.StatusCreated, commentInfoFrom(&comment))
}

// CommentDelete is allowed for the comment owner, the post owner and staff.
// Anything else - including a comment that simply isn't there - is a 404, so
// callers can't tell a hidden comment from a missing one.
func CommentDelete(c *gin.Context, user *models.User) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	post, ok := getPost(c)
	if !ok {
		return
	}
	comment := models.Comment{}
	db.Instance.First(&comment, "id = ? AND post_id = ?", id, post.ID)
	if comment.ID == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	if comment.UserID != user.ID && !user.IsStaff && post.UserID != user.ID {
		c.JSON(http.StatusNotFound, Response{"comment from this user not found"})
		return
	}
	if err := db.Instance.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	c.Status(http.StatusNoContent)
}

// CommentEdit is owner-only - unlike delete, staff and the post owner
// cannot touch other users' comment text
func CommentEdit(c *gin.Context, user *models.User) {
	// Same parameter precedence as CommentDelete: a missing comment_id
	// is a 404 even when the body wouldn't validate either
	id, ok := commentID(c)
	if !ok {
		return
	}
	post, ok := getPost(c)
	if !ok {
		return
	}
	r := CommentRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment := models.Comment{}
	db.Instance.First(&comment, "id = ? AND post_id = ? AND user_id = ?", id, post.ID, user.ID)
	if comment.ID == 0 {
		c.JSON(http.StatusNotFound, Response{"comment from this user not found"})
		return
	}
	comment.Text = r.Text
	if err := db.Instance.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	comment.User = *user
	c.JSON(http.StatusOK, commentInfoFrom(&comment))
}
