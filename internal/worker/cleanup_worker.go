package worker

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"lostfound/internal/repository"

	"github.com/sirupsen/logrus"
)

// CleanupWorker prunes files in the uploads directory that no item row
// references anymore, such as leftovers from submissions that failed after
// the file was written. Files younger than maxAge are always kept so a
// concurrent in-flight submission cannot lose its image.
type CleanupWorker struct {
	repo       repository.ItemRepository
	uploadsDir string
	interval   time.Duration
	maxAge     time.Duration
	stopChan   chan struct{}
	isRunning  bool
	log        *logrus.Logger
}

func NewCleanupWorker(
	repo repository.ItemRepository,
	uploadsDir string,
	interval, maxAge time.Duration,
	log *logrus.Logger,
) *CleanupWorker {
	return &CleanupWorker{
		repo:       repo,
		uploadsDir: uploadsDir,
		interval:   interval,
		maxAge:     maxAge,
		stopChan:   make(chan struct{}),
		log:        log,
	}
}

func (w *CleanupWorker) Start() {
	if w.isRunning {
		return
	}

	w.isRunning = true
	w.log.Infof("Cleanup worker started with interval %v", w.interval)

	go w.run()
}

func (w *CleanupWorker) Stop() {
	if !w.isRunning {
		return
	}

	close(w.stopChan)
	w.isRunning = false
	w.log.Info("Cleanup worker stopped")
}

func (w *CleanupWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.cleanup()
		case <-w.stopChan:
			return
		}
	}
}

func (w *CleanupWorker) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := w.CleanupOnce(ctx)
	if err != nil {
		w.log.WithError(err).Error("Cleanup worker error")
		return
	}
	if deleted > 0 {
		w.log.Infof("Cleanup worker removed %d orphaned uploads", deleted)
	}
}

// CleanupOnce runs a single pruning pass and returns how many files were
// removed.
func (w *CleanupWorker) CleanupOnce(ctx context.Context) (int, error) {
	urls, err := w.repo.ImageURLs(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]bool, len(urls))
	for _, url := range urls {
		referenced[filepath.Base(url)] = true
	}

	entries, err := os.ReadDir(w.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-w.maxAge)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ".gitkeep" {
			continue
		}
		if referenced[entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(w.uploadsDir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.log.WithError(err).WithField("file", entry.Name()).Warn("Failed to remove orphaned upload")
			continue
		}
		deleted++
	}

	return deleted, nil
}
