package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/handlers"
	"lostfound/internal/middleware"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/internal/worker"
	"lostfound/pkg/database"
	"lostfound/pkg/logger"
	"lostfound/pkg/mailer"
	"lostfound/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	log.Info("=== Lost & Found Backend Starting ===")
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	// MySQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Redis feed cache (optional)
	var cacheRepo repository.CacheRepository
	var redisStats handlers.RedisStatsFunc
	if cfg.Redis.Enabled {
		redisClient, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, feed cache disabled")
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient)
			redisStats = func() (map[string]string, error) {
				return redis.GetStats(redisClient)
			}
		}
	}

	// Repositories and services
	itemRepo := repository.NewItemRepository(db)

	uploadSvc := service.NewUploadService(service.UploadConfig{
		Dir:            cfg.Uploads.Dir,
		PublicPath:     cfg.Uploads.PublicPath,
		PlaceholderURL: cfg.Uploads.PlaceholderURL,
	}, log)

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := service.NewNotificationService(mail, log)

	itemSvc := service.NewItemService(itemRepo, cacheRepo, uploadSvc, notifier,
		log, cfg.Cache.FeedTTL, cfg.Export.OutputDir)

	// Background workers
	scheduler := worker.NewScheduler(log)
	if cfg.Workers.CleanupEnabled {
		scheduler.AddWorker(worker.NewCleanupWorker(itemRepo, cfg.Uploads.Dir,
			cfg.Workers.CleanupInterval, cfg.Workers.CleanupMaxAge, log))
		log.Infof("Cleanup worker enabled (interval: %v)", cfg.Workers.CleanupInterval)
	}
	go scheduler.Start()
	defer scheduler.Stop()

	// HTTP
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Info("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))

	allowOrigins := []string{"http://localhost:3000"}
	if cfg.App.FrontendURL != allowOrigins[0] {
		allowOrigins = append(allowOrigins, cfg.App.FrontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter, log))
		log.Infof("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Uploaded images are served straight from disk.
	r.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	api := r.Group("/api")

	itemHandler := handlers.NewItemHandler(itemSvc, log)
	itemHandler.Register(api)

	notificationHandler := handlers.NewNotificationHandler()
	notificationHandler.Register(api)

	systemHandler := handlers.NewSystemHandler(itemRepo, redisStats, cfg.Workers.CleanupEnabled, log)
	systemHandler.Register(api)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("Server running on http://localhost:%s", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}
