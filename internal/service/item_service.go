package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/utils"

	"github.com/sirupsen/logrus"
)

const feedCacheKey = "items:feed"

// ValidationError marks a submission rejected before it reaches the store.
// Handlers translate it to a 400; everything else is a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ItemService interface {
	// Submit validates a report, resolves its image URL, stores the row and
	// fires the confirmation email out of band. The returned item carries
	// the generated id.
	Submit(ctx context.Context, req *models.ReportItemRequest, image *multipart.FileHeader) (*models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	Claim(ctx context.Context, id uint) error
	// Export writes the feed (optionally filtered with Search) to a CSV or
	// XLSX file and returns its path.
	Export(ctx context.Context, format, query string) (string, error)
}

type itemService struct {
	repo      repository.ItemRepository
	cache     repository.CacheRepository
	uploads   UploadService
	notifier  NotificationService
	log       *logrus.Logger
	feedTTL   time.Duration
	exportDir string
}

// NewItemService wires the ingestion and feed pipeline. cache may be nil,
// in which case every read goes straight to the store.
func NewItemService(
	repo repository.ItemRepository,
	cache repository.CacheRepository,
	uploads UploadService,
	notifier NotificationService,
	log *logrus.Logger,
	feedTTL time.Duration,
	exportDir string,
) ItemService {
	if exportDir == "" {
		exportDir = "./data/exports"
	}
	return &itemService{
		repo:      repo,
		cache:     cache,
		uploads:   uploads,
		notifier:  notifier,
		log:       log,
		feedTTL:   feedTTL,
		exportDir: exportDir,
	}
}

func (s *itemService) Submit(ctx context.Context, req *models.ReportItemRequest, image *multipart.FileHeader) (*models.Item, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}

	// The image URL must resolve before anything is written: an upload
	// failure aborts the submission instead of leaving a row without its
	// file.
	imageURL, err := s.resolveImageURL(image)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Type:              req.Type,
		ItemName:          req.ItemName,
		Location:          req.Location,
		DateFoundLost:     req.DateFoundLost,
		TimeFoundLost:     req.TimeFoundLost,
		ContactInfo:       req.ContactInfo,
		UniqueIdentifiers: req.UniqueIdentifiers,
		ImageURL:          imageURL,
		Status:            models.StatusOpen,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.invalidateFeed(ctx)

	// Matching of lost reports against found ones is not built; this log
	// line is the only trace of it.
	s.log.Infof("New %s item reported: %s. Checking for matches...", item.Type, item.ItemName)

	// Fire and forget: the response never waits on, or fails because of,
	// the confirmation email.
	go s.dispatchConfirmation(*item)

	return item, nil
}

func (s *itemService) dispatchConfirmation(item models.Item) {
	if err := s.notifier.Notify(&item); err != nil {
		s.log.WithError(err).WithField("item_id", item.ID).Error("Error sending email")
	}
}

func (s *itemService) resolveImageURL(image *multipart.FileHeader) (string, error) {
	if image == nil {
		return s.uploads.PlaceholderURL(), nil
	}

	f, err := image.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer f.Close()

	return s.uploads.Save(f, image.Filename)
}

func (s *itemService) ListAll(ctx context.Context) ([]models.Item, error) {
	if s.cache != nil {
		var cached []models.Item
		err := s.cache.GetJSON(ctx, feedCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if err != repository.ErrCacheMiss {
			s.log.WithError(err).Warn("Feed cache read failed, falling back to store")
		}
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, feedCacheKey, items, s.feedTTL); err != nil {
			s.log.WithError(err).Warn("Feed cache write failed")
		}
	}

	return items, nil
}

func (s *itemService) Claim(ctx context.Context, id uint) error {
	if err := s.repo.Claim(ctx, id); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	return nil
}

func (s *itemService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, feedCacheKey); err != nil {
		s.log.WithError(err).Warn("Feed cache invalidation failed")
	}
}

func (s *itemService) Export(ctx context.Context, format, query string) (string, error) {
	// Exports read the store directly so they never see a stale cache.
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list items: %w", err)
	}

	if query != "" {
		items = Search(query, items)
	}

	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")

	switch format {
	case "csv":
		path := filepath.Join(s.exportDir, fmt.Sprintf("items_%s.csv", timestamp))
		if err := s.saveToCSV(path, items); err != nil {
			return "", err
		}
		return path, nil
	case "excel", "xlsx":
		path := filepath.Join(s.exportDir, fmt.Sprintf("items_%s.xlsx", timestamp))
		if err := utils.CreateItemsExcel(path, items); err != nil {
			return "", fmt.Errorf("failed to create Excel file: %w", err)
		}
		return path, nil
	default:
		return "", &ValidationError{Message: "unsupported format, use 'csv' or 'excel'"}
	}
}

func (s *itemService) saveToCSV(path string, items []models.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"ID", "Type", "Item Name", "Location", "Date", "Time",
		"Contact Info", "Unique Identifiers", "Image URL", "Status",
		"Latitude", "Longitude", "Created At"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, item := range items {
		record := []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Type,
			item.ItemName,
			item.Location,
			item.DateFoundLost,
			item.TimeFoundLost,
			item.ContactInfo,
			item.UniqueIdentifiers,
			item.ImageURL,
			item.Status,
			formatCoord(item.Latitude),
			formatCoord(item.Longitude),
			item.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Search filters items by a case-insensitive substring match over name,
// location, type and unique identifiers. It mirrors the filter the browser
// client applies to the feed; the server itself only uses it for exports.
func Search(query string, items []models.Item) []models.Item {
	q := strings.ToLower(query)

	matched := make([]models.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ItemName), q) ||
			strings.Contains(strings.ToLower(item.Location), q) ||
			strings.Contains(strings.ToLower(item.Type), q) ||
			strings.Contains(strings.ToLower(item.UniqueIdentifiers), q) {
			matched = append(matched, item)
		}
	}
	return matched
}

func validateReport(req *models.ReportItemRequest) error {
	required := []struct {
		name  string
		value string
	}{
		{"type", req.Type},
		{"item_name", req.ItemName},
		{"location", req.Location},
		{"date_found_lost", req.DateFoundLost},
		{"time_found_lost", req.TimeFoundLost},
		{"contact_info", req.ContactInfo},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{Message: fmt.Sprintf("missing required field: %s", field.name)}
		}
	}

	if req.Type != models.TypeLost && req.Type != models.TypeFound {
		return &ValidationError{Message: "type must be LOST or FOUND"}
	}

	date, err := time.Parse("2006-01-02", req.DateFoundLost)
	if err != nil {
		return &ValidationError{Message: "date_found_lost must be in YYYY-MM-DD format"}
	}
	if date.After(endOfToday()) {
		return &ValidationError{Message: "date_found_lost must not be in the future"}
	}

	if _, err := time.Parse("15:04", req.TimeFoundLost); err != nil {
		if _, err := time.Parse("15:04:05", req.TimeFoundLost); err != nil {
			return &ValidationError{Message: "time_found_lost must be in HH:MM format"}
		}
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return &ValidationError{Message: "latitude and longitude must be provided together"}
	}

	return nil
}

func endOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}
