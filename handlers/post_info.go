package handlers

import (
	"postgram/db"
	"postgram/geocode"
	"postgram/models"
	"strconv"
)

// PostInfo is the read representation of a post. The image upload field is
// write-only and never appears here.
type PostInfo struct {
	ID         uint64        `json:"id"`
	User       string        `json:"user"` // username, not the full object
	Text       string        `json:"text"`
	Images     []ImageInfo   `json:"images"`
	Location   *string       `json:"location,omitempty"` // reverse-geocoded address
	Comments   []CommentInfo `json:"comments"`
	LikesCount int64         `json:"likes_count"`
	CreatedAt  int64         `json:"created_at"`
	UpdatedAt  int64         `json:"updated_at"`
}

type ImageInfo struct {
	ID    uint64 `json:"id"`
	Image string `json:"image"` // fetch URL
}

type CommentInfo struct {
	ID        uint64 `json:"id"`
	User      string `json:"user"` // username
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func imageURL(id uint64) string {
	return "/image/fetch?id=" + strconv.FormatUint(id, 10)
}

func commentInfoFrom(comment *models.Comment) CommentInfo {
	return CommentInfo{
		ID:        comment.ID,
		User:      comment.User.Name,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// loadPostInfo projects a stored post (with its owner pre-loaded) into the
// response shape. Nested entities and the likes count are read at call time.
func loadPostInfo(post *models.Post) (info PostInfo, err error) {
	info = PostInfo{
		ID:        post.ID,
		User:      post.User.Name,
		Text:      post.Text,
		Images:    []ImageInfo{},
		Comments:  []CommentInfo{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	images := []models.PostImage{}
	if err = db.Instance.Where("post_id = ?", post.ID).Order("id").Find(&images).Error; err != nil {
		return
	}
	for _, image := range images {
		info.Images = append(info.Images, ImageInfo{ID: image.ID, Image: imageURL(image.ID)})
	}
	comments := []models.Comment{}
	if err = db.Instance.Preload("User").Where("post_id = ?", post.ID).Order("id").Find(&comments).Error; err != nil {
		return
	}
	for i := range comments {
		info.Comments = append(info.Comments, commentInfoFrom(&comments[i]))
	}
	if err = db.Instance.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&info.LikesCount).Error; err != nil {
		return
	}
	if post.HasLocation() {
		address, err := geocode.Reverse(*post.GpsLat, *post.GpsLong)
		if err != nil {
			return info, err
		}
		info.Location = &address
	}
	return info, nil
}
