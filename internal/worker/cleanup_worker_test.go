package worker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupRepo(t *testing.T) repository.ItemRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.Item{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}
	return repository.NewItemRepository(db)
}

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestCleanupOnceRemovesOnlyOldOrphans(t *testing.T) {
	repo := setupRepo(t)
	dir := t.TempDir()
	ctx := context.Background()

	item := &models.Item{
		Type:          models.TypeFound,
		ItemName:      "Wallet",
		Location:      "Cafe",
		DateFoundLost: "2024-05-01",
		TimeFoundLost: "14:30",
		ContactInfo:   "a@b.com",
		ImageURL:      "/uploads/referenced.jpg",
		Status:        models.StatusOpen,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	referenced := writeAgedFile(t, dir, "referenced.jpg", 48*time.Hour)
	orphanOld := writeAgedFile(t, dir, "orphan-old.jpg", 48*time.Hour)
	orphanFresh := writeAgedFile(t, dir, "orphan-fresh.jpg", time.Minute)
	keep := writeAgedFile(t, dir, ".gitkeep", 48*time.Hour)

	w := NewCleanupWorker(repo, dir, time.Hour, 24*time.Hour, testLogger())

	deleted, err := w.CleanupOnce(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected exactly 1 deletion, got %d", deleted)
	}

	if _, err := os.Stat(orphanOld); !os.IsNotExist(err) {
		t.Fatal("expected old orphan to be removed")
	}
	for _, path := range []string{referenced, orphanFresh, keep} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to survive cleanup: %v", filepath.Base(path), err)
		}
	}
}

func TestCleanupOnceMissingDirectory(t *testing.T) {
	repo := setupRepo(t)
	w := NewCleanupWorker(repo, filepath.Join(t.TempDir(), "missing"),
		time.Hour, 24*time.Hour, testLogger())

	deleted, err := w.CleanupOnce(context.Background())
	if err != nil {
		t.Fatalf("expected missing directory to be a no-op, got: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deletions, got %d", deleted)
	}
}
