package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/repository"
	"lostfound/pkg/database"
	"lostfound/pkg/logger"
	"lostfound/pkg/redis"

	"github.com/joho/godotenv"
)

// Administrative reset: wipes every report, every uploaded file and the feed
// cache. Destructive by design; it lives outside the server binary so it can
// never be reached over HTTP.
func main() {
	godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
	})
	if err != nil {
		log.Fatal("Database connection failed: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Clear the items table.
	itemRepo := repository.NewItemRepository(db)
	if err := itemRepo.DeleteAll(ctx); err != nil {
		log.Fatal("Error clearing database: ", err)
	}
	log.Info("Database cleared successfully (items table truncated)")

	// 2. Delete uploaded files, keeping .gitkeep.
	entries, err := os.ReadDir(cfg.Uploads.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Error("Error reading uploads directory")
		}
	} else {
		deleted := 0
		for _, entry := range entries {
			if entry.IsDir() || entry.Name() == ".gitkeep" {
				continue
			}
			if err := os.Remove(filepath.Join(cfg.Uploads.Dir, entry.Name())); err != nil {
				log.WithError(err).Errorf("Error deleting file %s", entry.Name())
				continue
			}
			deleted++
		}
		log.Infof("Deleted %d files from uploads directory", deleted)
	}

	// 3. Flush the feed cache so stale entries do not outlive the reset.
	if cfg.Redis.Enabled {
		redisClient, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, skipping cache flush")
		} else {
			defer redisClient.Close()
			cache := repository.NewCacheRepository(redisClient)
			if err := cache.FlushAll(ctx); err != nil {
				log.WithError(err).Warn("Failed to flush cache")
			} else {
				log.Info("Feed cache flushed")
			}
		}
	}

	log.Info("Finished cleanup task")
}
