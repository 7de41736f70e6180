package storage

import (
	"io"
	"log"
	"net/http"
	"postgram/config"
	"postgram/db"
)

type StorageAPI interface {
	GetFullPath(path string) string
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	// GetDownloadURL returns a direct URL for the object, or "" if the
	// storage cannot be accessed without going through us
	GetDownloadURL(path string) (url string, expires int64)
	GetFreeSpace() uint64
	GetBucket() *Bucket
}

var cachedStorage []StorageAPI

func Init() {
	if err := db.Instance.AutoMigrate(&Bucket{}); err != nil {
		panic(err)
	}
	var buckets []Bucket
	if err := db.Instance.Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 {
		// First run - create a disk bucket for uploaded images
		bucket := Bucket{
			Name:        "media",
			StorageType: StorageTypeFile,
			Path:        config.MEDIA_DIR,
		}
		if err := bucket.Create(); err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	log.Printf("Storage buckets found: %d", len(buckets))
	cachedStorage = []StorageAPI{}
	for _, bucket := range buckets {
		if bucket.StorageType == StorageTypeS3 {
			cachedStorage = append(cachedStorage, NewS3Storage(&bucket))
		} else {
			cachedStorage = append(cachedStorage, NewDiskStorage(&bucket))
		}
	}
}

func StorageFrom(bucket *Bucket) StorageAPI {
	for _, s := range cachedStorage {
		if s.GetBucket().ID == bucket.ID {
			return s
		}
	}
	return nil
}

func GetDefaultStorage() StorageAPI {
	if len(cachedStorage) == 0 {
		panic("no storage available")
	}
	for _, s := range cachedStorage {
		if s.GetBucket().StorageType == StorageTypeFile {
			return s
		}
	}
	return cachedStorage[0]
}
