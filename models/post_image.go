package models

import (
	"path/filepath"
	"postgram/storage"
	"strconv"
)

type PostImage struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	PostID    uint64
	Post      Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BucketID  uint64
	Bucket    storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name      string         `gorm:"type:varchar(300)"` // original file name
	MimeType  string         `gorm:"type:varchar(50)"`
	Size      int64
	ThumbSize int64
}

// GetPath returns the object path within the bucket, e.g. post/56/3.jpg
func (pi *PostImage) GetPath() string {
	return pi.GetPathOrThumb(false)
}

func (pi *PostImage) GetThumbPath() string {
	return pi.GetPathOrThumb(true)
}

func (pi *PostImage) GetPathOrThumb(thumb bool) string {
	path := "post/" + strconv.FormatUint(pi.PostID, 10) + "/" + strconv.FormatUint(pi.ID, 10)
	if thumb {
		return path + "_thumb.jpg"
	}
	ext := filepath.Ext(pi.Name)
	if ext == "" {
		ext = ".jpg"
	}
	return path + ext
}
