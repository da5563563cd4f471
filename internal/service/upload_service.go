package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// UploadService persists report images to the local uploads directory and
// hands back the public URL they will be served under.
type UploadService interface {
	// Save writes the uploaded bytes under a timestamp-qualified name and
	// returns the public URL for the stored file.
	Save(r io.Reader, originalName string) (string, error)
	// PlaceholderURL is the image URL used when a report has no file attached.
	PlaceholderURL() string
}

type uploadService struct {
	dir            string
	publicPath     string
	placeholderURL string
	log            *logrus.Logger
}

type UploadConfig struct {
	Dir            string
	PublicPath     string
	PlaceholderURL string
}

func NewUploadService(config UploadConfig, log *logrus.Logger) UploadService {
	if config.Dir == "" {
		config.Dir = "public/uploads"
	}
	if config.PublicPath == "" {
		config.PublicPath = "/uploads"
	}

	if err := os.MkdirAll(config.Dir, 0755); err != nil {
		log.WithError(err).Warn("Failed to create uploads directory")
	}

	return &uploadService{
		dir:            config.Dir,
		publicPath:     config.PublicPath,
		placeholderURL: config.PlaceholderURL,
		log:            log,
	}
}

func (s *uploadService) Save(r io.Reader, originalName string) (string, error) {
	// MkdirAll is idempotent; re-running it covers the directory being
	// removed out from under a long-lived process.
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	// Millisecond timestamp plus the original name keeps concurrent uploads
	// from colliding at this scale.
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(originalName))
	dst := filepath.Join(s.dir, filename)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.log.WithField("file", filename).Debug("Stored uploaded image")
	return s.publicPath + "/" + filename, nil
}

func (s *uploadService) PlaceholderURL() string {
	return s.placeholderURL
}
