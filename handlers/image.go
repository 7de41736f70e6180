package handlers

import (
	"bytes"
	"net/http"
	"postgram/db"
	"postgram/models"
	"postgram/storage"
	"postgram/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ImageFetchRequest struct {
	ID       uint64 `form:"id" binding:"required"`
	Thumb    uint   `form:"thumb"`
	Download uint   `form:"download"`
	Size     uint   `form:"size"`
}

// ImageFetch serves a stored post image, optionally as a (resized) thumbnail.
// S3-backed images redirect to a presigned URL instead of proxying the bytes.
func ImageFetch(c *gin.Context) {
	r := ImageFetchRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	image := models.PostImage{}
	db.Instance.Preload("Bucket").First(&image, "id = ?", r.ID)
	if image.ID == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	st := storage.StorageFrom(&image.Bucket)
	if st == nil {
		c.JSON(http.StatusInternalServerError, Response{"no storage for image"})
		return
	}
	path := image.GetPath()
	if r.Thumb == 1 && image.ThumbSize > 0 {
		path = image.GetThumbPath()
	}
	if image.Bucket.IsS3() {
		url, expires := st.GetDownloadURL(path)
		if url == "" {
			c.JSON(http.StatusInternalServerError, Response{"presign failed"})
			return
		}
		maxAge := expires - time.Now().Unix()
		c.Header("cache-control", "private, max-age="+strconv.FormatInt(maxAge, 10))
		c.Redirect(http.StatusFound, url)
		return
	}
	if r.Thumb == 1 && image.ThumbSize > 0 {
		c.Header("content-type", "image/jpeg")
		if r.Size == 0 {
			// Default big thumb size
			if _, err := st.Load(path, c.Writer); err != nil {
				c.JSON(http.StatusInternalServerError, Response{err.Error()})
			}
			return
		}
		// Custom size
		var buf bytes.Buffer
		if _, err := st.Load(path, &buf); err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		imageThumbInfo, err := utils.CreateThumb(r.Size, &buf, c.Writer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		c.Header("content-length", strconv.FormatInt(imageThumbInfo.ThumbSize, 10))
		return
	}
	// Original
	c.Header("content-type", image.MimeType)
	if r.Download == 1 {
		c.Header("content-disposition", "attachment; filename=\""+image.Name+"\"")
	}
	// Handles Byte-ranges too
	st.Serve(path, c.Request, c.Writer)
}
