package server

import (
	"log"
	"strings"
	"time"

	"booknest.app/bookreviewapi/internal/config"
	"booknest.app/bookreviewapi/internal/handler"
	"booknest.app/bookreviewapi/internal/middleware"
	"booknest.app/bookreviewapi/internal/repository"
	"booknest.app/bookreviewapi/internal/service"
	"booknest.app/bookreviewapi/pkg/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
}

func NewServer(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Server {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			log.Fatalf("failed to register validators: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	var searchSvc service.SearchService
	if cfg.MeiliHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliHost, meilisearch.WithAPIKey(cfg.MeiliAPIKey))
		searchSvc = service.NewSearchService(meiliClient)
	}

	userSvc := service.NewUserService(userRepo, bookRepo, searchSvc, cfg.JWTSecret, cfg.TokenTTL)
	bookSvc := service.NewBookService(bookRepo, reviewRepo, userRepo, searchSvc)
	reviewSvc := service.NewReviewService(reviewRepo, bookRepo)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret, cfg.IsProduction())

	userHandler := handler.NewUserHandler(userSvc, authMiddleware, rdb, cfg.RateLimitAuth)
	bookHandler := handler.NewBookHandler(bookSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	adminHandler := handler.NewAdminHandler(userSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())

	setupCORS(router, cfg.AllowedOrigins)

	v1 := router.Group("/v1")

	user := v1.Group("/user")
	{
		user.POST("/signup", userHandler.Signup)
		user.POST("/login", userHandler.Login)
		user.POST("/logout", userHandler.Logout)

		user.GET("/me", authMiddleware.Authenticate(), userHandler.Me)
		user.PATCH("/update", authMiddleware.Authenticate(), userHandler.Update)
		user.DELETE("/delete", authMiddleware.Authenticate(), userHandler.Delete)
	}

	books := v1.Group("/books")
	{
		books.GET("", bookHandler.List)
		books.GET("/search", bookHandler.Search)
		books.GET("/:id", bookHandler.Get)
		books.GET("/:id/reviews", reviewHandler.ListByBook)

		books.POST("", authMiddleware.Authenticate(), bookHandler.Create)
		books.POST("/:id/reviews", authMiddleware.Authenticate(), reviewHandler.Create)
	}

	reviews := v1.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.PUT("/:id", reviewHandler.Update)
		reviews.DELETE("/:id", reviewHandler.Delete)
	}

	admin := v1.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
	}

	return &Server{engine: router}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
