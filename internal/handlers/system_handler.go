package handlers

import (
	"net/http"
	"time"

	"lostfound/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RedisStatsFunc reports cache server metrics. Nil when the cache is
// disabled.
type RedisStatsFunc func() (map[string]string, error)

// SystemHandler serves the health check and the operational stats endpoint.
type SystemHandler struct {
	repo           repository.ItemRepository
	redisStats     RedisStatsFunc
	cleanupEnabled bool
	log            *logrus.Logger
}

func NewSystemHandler(repo repository.ItemRepository, redisStats RedisStatsFunc, cleanupEnabled bool, log *logrus.Logger) *SystemHandler {
	return &SystemHandler{
		repo:           repo,
		redisStats:     redisStats,
		cleanupEnabled: cleanupEnabled,
		log:            log,
	}
}

func (h *SystemHandler) Register(api *gin.RouterGroup) {
	api.GET("/health", h.Health)
	api.GET("/system/stats", h.Stats)
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"database": "connected",
			"cache":    h.redisStats != nil,
		},
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	itemCount, _ := h.repo.Count(ctx)

	response := gin.H{
		"database": gin.H{
			"items": itemCount,
		},
		"workers": gin.H{
			"cleanup_enabled": h.cleanupEnabled,
		},
	}

	if h.redisStats != nil {
		redisStats, err := h.redisStats()
		if err != nil {
			h.log.WithError(err).Warn("Failed to get Redis stats")
		} else {
			response["redis"] = redisStats
		}
	}

	c.JSON(http.StatusOK, response)
}
