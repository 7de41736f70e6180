package main

import (
	"log"
	"postgram/auth"
	"postgram/config"
	"postgram/db"
	"postgram/handlers"
	"postgram/models"
	"postgram/storage"
	"postgram/utils"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()
	storage.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/image/fetch"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Account handlers
	router.POST("/user/register", handlers.UserRegister)
	router.POST("/api-token-auth", handlers.TokenAuth)
	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Post handlers - reads are open, writes need a token
	router.GET("/post/", handlers.PostList)
	router.GET("/post/:id/", handlers.PostRetrieve)
	authRouter.POST("/post/", handlers.PostCreate)
	authRouter.PUT("/post/:id/", handlers.PostUpdate)
	authRouter.PATCH("/post/:id/", handlers.PostUpdate)
	authRouter.DELETE("/post/:id/", handlers.PostDelete)
	// Comment sub-actions (comment_id comes as a query parameter)
	authRouter.POST("/post/:id/add_comment/", handlers.CommentAdd)
	authRouter.DELETE("/post/:id/del_comment/", handlers.CommentDelete)
	authRouter.PATCH("/post/:id/edit_comment/", handlers.CommentEdit)
	// Like sub-actions
	authRouter.POST("/post/:id/add_like/", handlers.LikeAdd)
	authRouter.DELETE("/post/:id/del_like/", handlers.LikeDelete)
	// Image serving, cacheable for a week (S3 redirects set their own max-age)
	router.GET("/image/fetch", (&utils.CacheRouter{CacheTime: utils.CacheOneWeek}).Handler(), handlers.ImageFetch)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
