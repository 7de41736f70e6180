package handlers

import (
	"net/http"
	"postgram/db"
	"postgram/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
)

// getPost loads the post from the :id path segment.
// Responds with 404 and returns false when there is no such post.
func getPost(c *gin.Context) (post models.Post, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return post, false
	}
	if db.Instance.Preload("User").First(&post, "id = ?", id).Error != nil || post.ID == 0 {
		c.Status(http.StatusNotFound)
		return post, false
	}
	return post, true
}
