package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"postgram/auth"
	"postgram/config"
	"postgram/db"
	"postgram/models"
	"postgram/storage"
	"postgram/utils"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupServer builds a fresh in-memory database, a disk bucket in a temp
// directory and a router with the same routes main registers.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("opening test DB: %v", err)
	}
	db.Instance = gdb
	models.Init()
	config.MEDIA_DIR = t.TempDir()
	storage.Init()

	router := gin.New()
	router.POST("/user/register", UserRegister)
	router.POST("/api-token-auth", TokenAuth)
	authRouter := &auth.Router{Base: router}
	router.GET("/post/", PostList)
	router.GET("/post/:id/", PostRetrieve)
	authRouter.POST("/post/", PostCreate)
	authRouter.PUT("/post/:id/", PostUpdate)
	authRouter.PATCH("/post/:id/", PostUpdate)
	authRouter.DELETE("/post/:id/", PostDelete)
	authRouter.POST("/post/:id/add_comment/", CommentAdd)
	authRouter.DELETE("/post/:id/del_comment/", CommentDelete)
	authRouter.PATCH("/post/:id/edit_comment/", CommentEdit)
	authRouter.POST("/post/:id/add_like/", LikeAdd)
	authRouter.DELETE("/post/:id/del_like/", LikeDelete)
	router.GET("/image/fetch", (&utils.CacheRouter{CacheTime: utils.CacheOneWeek}).Handler(), ImageFetch)
	return router
}

func createUser(t *testing.T, name string, staff bool) (models.User, string) {
	t.Helper()
	user, err := models.UserCreate(name, "password")
	if err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	if staff {
		if err := db.Instance.Model(&user).Update("is_staff", true).Error; err != nil {
			t.Fatalf("making %s staff: %v", name, err)
		}
		user.IsStaff = true
	}
	token, err := models.TokenCreate(user.ID)
	if err != nil {
		t.Fatalf("creating token for %s: %v", name, err)
	}
	return user, "Token " + token.Key
}

// postUpload builds a multipart body with the given form fields and
// imageCount generated PNG files under "uploaded_images"
func postUpload(t *testing.T, fields map[string]string, imageCount int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for i := 0; i < imageCount; i++ {
		fw, err := w.CreateFormFile("uploaded_images", fmt.Sprintf("photo%d.png", i))
		if err != nil {
			t.Fatalf("multipart: %v", err)
		}
		if err := png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
			t.Fatalf("encoding test image: %v", err)
		}
	}
	w.Close()
	return body, w.FormDataContentType()
}

func doRequest(t *testing.T, router *gin.Engine, method, url string, body io.Reader, contentType, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func createPost(t *testing.T, router *gin.Engine, authHeader string, fields map[string]string) PostInfo {
	t.Helper()
	body, contentType := postUpload(t, fields, 1)
	resp := doRequest(t, router, "POST", "/post/", body, contentType, authHeader)
	if resp.Code != http.StatusCreated {
		t.Fatalf("creating post: status %d, body %s", resp.Code, resp.Body.String())
	}
	info := PostInfo{}
	if err := json.Unmarshal(resp.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding post response: %v", err)
	}
	return info
}
