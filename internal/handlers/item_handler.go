package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ItemHandler struct {
	service service.ItemService
	log     *logrus.Logger
}

func NewItemHandler(service service.ItemService, log *logrus.Logger) *ItemHandler {
	return &ItemHandler{service: service, log: log}
}

func (h *ItemHandler) Register(api *gin.RouterGroup) {
	api.GET("/items", h.ListItems)
	api.POST("/items", h.ReportItem)
	api.POST("/items/:id/claim", h.ClaimItem)
	api.GET("/items/export", h.ExportItems)
}

// ListItems returns the full feed, newest first. Filtering happens on the
// client; the server always ships everything.
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list items")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) ReportItem(c *gin.Context) {
	var req models.ReportItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image upload"})
		return
	}

	item, err := h.service.Submit(c.Request.Context(), &req, image)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		h.log.WithError(err).Error("Failed to report item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item reported successfully",
		"id":      item.ID,
	})
}

func (h *ItemHandler) ClaimItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := h.service.Claim(c.Request.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, repository.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "item already claimed"})
		default:
			h.log.WithError(err).Error("Failed to claim item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item claimed successfully"})
}

func (h *ItemHandler) ExportItems(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	query := c.Query("q")

	path, err := h.service.Export(c.Request.Context(), format, query)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		h.log.WithError(err).Error("Failed to export items")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var contentType, filename string
	switch format {
	case "excel", "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "items_export.xlsx"
	default:
		contentType = "text/csv"
		filename = "items_export.csv"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.File(path)
}
