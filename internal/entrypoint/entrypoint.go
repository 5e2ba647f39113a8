package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
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
	http_controllers "github.com/openshelf/openshelf/internal/http"
	"github.com/openshelf/openshelf/internal/storage"
	"github.com/openshelf/openshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting OpenShelf v%s", version)

	db, err := database.Open(cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	artifacts, err := storage.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	usersRepo := users.NewRepository(db.DB)
	authorsRepo := authors.NewRepository(db.DB)
	genresRepo := genres.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	associationsRepo := associations.NewRepository(db.DB)
	filesRepo := files.NewRepository(db.DB, artifacts)
	favoritesRepo := favorites.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	activityRepo := activity.NewRepository(db.DB)
	reportingRepo := reporting.NewRepository(db.DB)

	authService := auth.NewService(usersRepo, cfg.Auth.BcryptCost)

	// Background task queue for the nightly log purge.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var scheduler *cron.Cron
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupLogsQueue(activityRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		scheduler = cron.New()
		_, err = scheduler.AddFunc(cfg.Logs.PurgeSchedule, func() {
			task := tasks.CleanupLogsTask{RetentionDays: cfg.Logs.RetentionDays}
			if err := taskClient.Add(task); err != nil {
				log.Printf("Failed to enqueue log cleanup: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid log purge schedule %q: %v", cfg.Logs.PurgeSchedule, err)
		}
		scheduler.Start()
		log.Printf("Scheduled log purge (%s, retention %d days)", cfg.Logs.PurgeSchedule, cfg.Logs.RetentionDays)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:     db.DB,
		AuthService:  authService,
		Artifacts:    artifacts,
		Users:        usersRepo,
		Authors:      authorsRepo,
		Genres:       genresRepo,
		Books:        booksRepo,
		Associations: associationsRepo,
		Files:        filesRepo,
		Favorites:    favoritesRepo,
		Reviews:      reviewsRepo,
		Activity:     activityRepo,
		Reporting:    reportingRepo,
		Version:      version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
