package handlers

import (
	"bytes"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"postgram/db"
	"postgram/geocode"
	"postgram/models"
	"postgram/storage"
	"postgram/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const thumbSize = 1280

var errNotAnImage = errors.New("uploaded file is not a valid image")

type PostCreateRequest struct {
	Text     string `form:"text" binding:"omitempty,max=256"`
	Location string `form:"location" binding:"omitempty,max=64"`
}

type PostUpdateRequest struct {
	Text     *string `form:"text" json:"text" binding:"omitempty,max=256"`
	Location *string `form:"location" json:"location" binding:"omitempty,max=64"`
}

func PostList(c *gin.Context) {
	posts := []models.Post{}
	if err := db.Instance.Preload("User").Order("id").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := []PostInfo{}
	for i := range posts {
		info, err := loadPostInfo(&posts[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{err.Error()})
			return
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}

func PostRetrieve(c *gin.Context) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	info, err := loadPostInfo(&post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// PostCreate expects a multipart form with optional text and location fields
// and at least one file under "uploaded_images". A supplied location must
// geocode or the whole request fails. The post row and all of its image rows
// are inserted in one transaction.
func PostCreate(c *gin.Context, user *models.User) {
	r := PostCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["uploaded_images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}
	post := models.Post{
		UserID: user.ID,
		Text:   r.Text,
	}
	if r.Location != "" {
		if !geocodeInto(c, r.Location, &post) {
			return
		}
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, file := range files {
			if err := saveUploadedImage(tx, &post, file); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNotAnImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			log.Printf("Post create error: %v", err)
			c.JSON(http.StatusInternalServerError, DBError1Response)
		}
		return
	}
	post.User = *user
	info, err := loadPostInfo(&post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusCreated, info)
}

func PostUpdate(c *gin.Context, user *models.User) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	if !user.CanModify(post.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	r := PostUpdateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if r.Text != nil {
		post.Text = *r.Text
	}
	if r.Location != nil {
		if *r.Location == "" {
			post.GpsLat = nil
			post.GpsLong = nil
		} else if !geocodeInto(c, *r.Location, &post) {
			return
		}
	}
	if err := db.Instance.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	info, err := loadPostInfo(&post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// PostDelete removes the post with its images, comments and likes
func PostDelete(c *gin.Context, user *models.User) {
	post, ok := getPost(c)
	if !ok {
		return
	}
	if !user.CanModify(post.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	images := []models.PostImage{}
	_ = db.Instance.Preload("Bucket").Where("post_id = ?", post.ID).Find(&images).Error
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	// Stored files go last - a failure here leaves no dangling DB rows
	for i := range images {
		st := storage.StorageFrom(&images[i].Bucket)
		if st == nil {
			continue
		}
		if err := st.Delete(images[i].GetPath()); err != nil {
			log.Printf("Couldn't delete image %d: %v", images[i].ID, err)
		}
		if images[i].ThumbSize > 0 {
			_ = st.Delete(images[i].GetThumbPath())
		}
	}
	c.Status(http.StatusNoContent)
}

// geocodeInto resolves the location text and stores the coordinates on the
// post. Responds with the validation error and returns false on failure.
func geocodeInto(c *gin.Context, location string, post *models.Post) bool {
	lat, long, found, err := geocode.Forward(location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return false
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nonexistent place"})
		return false
	}
	post.GpsLat = &lat
	post.GpsLong = &long
	return true
}

func saveUploadedImage(tx *gorm.DB, post *models.Post, file *multipart.FileHeader) error {
	st := storage.GetDefaultStorage()
	image := models.PostImage{
		PostID:   post.ID,
		BucketID: st.GetBucket().ID,
		Name:     file.Filename,
		MimeType: file.Header.Get("Content-Type"),
	}
	// The row comes first - the object path is derived from its ID
	if err := tx.Create(&image).Error; err != nil {
		return err
	}
	reader, err := file.Open()
	if err != nil {
		return err
	}
	image.Size, err = st.Save(image.GetPath(), reader)
	reader.Close()
	if err != nil {
		return err
	}
	thumbReader, err := file.Open()
	if err != nil {
		return err
	}
	var thumb bytes.Buffer
	_, err = utils.CreateThumb(thumbSize, thumbReader, &thumb)
	thumbReader.Close()
	if err != nil {
		return errNotAnImage
	}
	if image.ThumbSize, err = st.Save(image.GetThumbPath(), &thumb); err != nil {
		return err
	}
	return tx.Save(&image).Error
}
