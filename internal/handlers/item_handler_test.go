package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const placeholderURL = "https://via.placeholder.com/300x200?text=No+Image"

type noopNotifier struct{}

func (noopNotifier) Notify(*models.Item) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.Item{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	log := testLogger()
	repo := repository.NewItemRepository(db)
	uploads := service.NewUploadService(service.UploadConfig{
		Dir:            t.TempDir(),
		PublicPath:     "/uploads",
		PlaceholderURL: placeholderURL,
	}, log)
	svc := service.NewItemService(repo, nil, uploads, noopNotifier{}, log,
		30*time.Second, t.TempDir())

	r := gin.New()
	api := r.Group("/api")
	NewItemHandler(svc, log).Register(api)
	NewNotificationHandler().Register(api)
	return r
}

func reportForm(t *testing.T, fields map[string]string, imageName string, imageContent []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageContent); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"type":            "FOUND",
		"item_name":       "Blue Backpack",
		"location":        "Central Park",
		"date_found_lost": "2024-05-01",
		"time_found_lost": "14:30",
		"contact_info":    "a@b.com",
	}
}

func TestReportAndListRoundTrip(t *testing.T) {
	r := setupRouter(t)

	body, contentType := reportForm(t, validFields(), "", nil)
	req := httptest.NewRequest("POST", "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Message == "" || created.ID == 0 {
		t.Fatalf("expected message and id, got %+v", created)
	}

	req = httptest.NewRequest("GET", "/api/items", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []models.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item in feed, got %d", len(items))
	}
	if items[0].ID != created.ID {
		t.Fatalf("feed id %d != created id %d", items[0].ID, created.ID)
	}
	if items[0].ImageURL != placeholderURL {
		t.Fatalf("expected placeholder image URL, got %q", items[0].ImageURL)
	}
	if items[0].Status != models.StatusOpen {
		t.Fatalf("expected status OPEN, got %q", items[0].Status)
	}
}

func TestReportWithImage(t *testing.T) {
	r := setupRouter(t)

	content := []byte("fake jpeg content")
	body, contentType := reportForm(t, validFields(), "backpack.jpg", content)
	req := httptest.NewRequest("POST", "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/items", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var items []models.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ImageURL == placeholderURL {
		t.Fatal("expected uploaded image URL, got placeholder")
	}
}

func TestReportMissingFieldRejected(t *testing.T) {
	r := setupRouter(t)

	fields := validFields()
	delete(fields, "item_name")

	body, contentType := reportForm(t, fields, "", nil)
	req := httptest.NewRequest("POST", "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/items", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var items []models.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty feed after rejected submission, got %d items", len(items))
	}
}

func TestEmptyFeedIsJSONArray(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest("GET", "/api/items", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestClaimFlow(t *testing.T) {
	r := setupRouter(t)

	body, contentType := reportForm(t, validFields(), "", nil)
	req := httptest.NewRequest("POST", "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	claimPath := fmt.Sprintf("/api/items/%d/claim", created.ID)

	req = httptest.NewRequest("POST", claimPath, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first claim, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", claimPath, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second claim, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/items/99999/claim", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", rec.Code)
	}
}

func TestNotificationsPollAlwaysEmpty(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestExportDownload(t *testing.T) {
	r := setupRouter(t)

	body, contentType := reportForm(t, validFields(), "", nil)
	req := httptest.NewRequest("POST", "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit failed: %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/items/export?format=csv", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Blue Backpack")) {
		t.Fatal("export body missing item row")
	}

	req = httptest.NewRequest("GET", "/api/items/export?format=pdf", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}
