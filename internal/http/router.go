package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/database/activity"
	"github.com/openshelf/openshelf/internal/database/associations"
	"github.com/openshelf/openshelf/internal/database/authors"
	"github.com/openshelf/openshelf/internal/database/books"
	"github.com/openshelf/openshelf/internal/database/favorites"
	"github.com/openshelf/openshelf/internal/database/files"
	"github.com/openshelf/openshelf/internal/database/genres"
	"github.com/openshelf/openshelf/internal/database/reporting"
	"github.com/openshelf/openshelf/internal/database/reviews"
	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/storage"
)

// RouterConfig carries every dependency the router needs. Passing one struct
// keeps NewRouter's signature stable as controllers grow.
type RouterConfig struct {
	Database *gorm.DB

	AuthService *auth.Service
	Artifacts   *storage.Local

	Users        *users.Repository
	Authors      *authors.Repository
	Genres       *genres.Repository
	Books        *books.Repository
	Associations *associations.Repository
	Files        *files.Repository
	Favorites    *favorites.Repository
	Reviews      *reviews.Repository
	Activity     *activity.Repository
	Reporting    *reporting.Repository

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(Identity(cfg.AuthService))

	authController := NewAuthController(cfg.AuthService, cfg.Activity)
	booksController := NewBooksController(cfg.Books, cfg.Associations, cfg.Files, cfg.Activity, cfg.Artifacts)
	authorsController := NewAuthorsController(cfg.Authors, cfg.Associations)
	genresController := NewGenresController(cfg.Genres, cfg.Associations)
	filesController := NewFilesController(cfg.Files, cfg.Books, cfg.Artifacts)
	reviewsController := NewReviewsController(cfg.Reviews, cfg.Activity)
	favoritesController := NewFavoritesController(cfg.Favorites, cfg.Activity)
	usersController := NewUsersController(cfg.Users)
	adminController := NewAdminController(cfg.Reporting, cfg.Activity)

	// Health endpoints
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := cfg.Database.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "version": cfg.Version})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	router.POST("/api/auth/register", authController.Register)
	router.POST("/api/auth/login", authController.Login)
	router.POST("/api/auth/logout", RequireAuth(), authController.Logout)

	// Public catalog endpoints
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/search", booksController.Search)
	router.GET("/api/books/:id", booksController.Get)
	router.GET("/api/books/:id/reviews", reviewsController.ListByBook)
	router.GET("/api/authors", authorsController.List)
	router.GET("/api/authors/:id", authorsController.Get)
	router.GET("/api/genres", genresController.List)
	router.GET("/api/genres/:id", genresController.Get)

	// Authenticated reader endpoints
	reader := router.Group("/api", RequireAuth())
	{
		reader.GET("/books/:id/files/:fileID/download", booksController.Download)
		reader.POST("/books/:id/reviews", reviewsController.Create)
		reader.PUT("/reviews/:id", reviewsController.Update)
		reader.DELETE("/reviews/:id", reviewsController.Delete)
		reader.GET("/favorites", favoritesController.List)
		reader.POST("/books/:id/favorite", favoritesController.Add)
		reader.DELETE("/books/:id/favorite", favoritesController.Remove)
	}

	// Admin endpoints
	admin := router.Group("/api/admin", RequireAuth(), RequireAdmin())
	{
		admin.POST("/books", booksController.Create)
		admin.GET("/books/:id", booksController.GetAny)
		admin.PUT("/books/:id", booksController.Update)
		admin.DELETE("/books/:id", booksController.Delete)
		admin.POST("/books/:id/cover", booksController.UploadCover)
		admin.POST("/books/:id/files", filesController.Upload)
		admin.GET("/books/:id/files", filesController.List)
		admin.POST("/files/:id/deactivate", filesController.Deactivate)
		admin.DELETE("/files/:id", filesController.Purge)

		admin.POST("/authors", authorsController.Create)
		admin.PUT("/authors/:id", authorsController.Update)
		admin.DELETE("/authors/:id", authorsController.Delete)

		admin.POST("/genres", genresController.Create)
		admin.PUT("/genres/:id", genresController.Update)
		admin.DELETE("/genres/:id", genresController.Delete)

		admin.GET("/users", usersController.List)
		admin.GET("/users/:id", usersController.Get)
		admin.POST("/users/:id/activation", usersController.SetActive)
		admin.DELETE("/users/:id", usersController.Delete)

		admin.GET("/dashboard", adminController.Dashboard)
		admin.GET("/logs", adminController.Logs)
		admin.POST("/logs/purge", adminController.PurgeLogs)
	}

	return router
}
