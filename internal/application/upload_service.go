package application

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/campus-connect/pkg/helpers"
)

const (
	DefaultMaxFiles     = 6
	DefaultMaxFileBytes = 5 * 1024 * 1024
	DefaultUploadPrefix = "user-photos"
)

// AllowedPhotoTypes are the declared media types accepted for photos.
var AllowedPhotoTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var uploadStats = expvar.NewMap("photo_uploads")

// ObjectStore stores one blob and returns its public address.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadFile is one candidate file of a batch. Open is called at most once.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadService struct {
	Store        ObjectStore
	Logger       *logrus.Logger
	Prefix       string
	MaxFiles     int
	MaxFileBytes int64

	newName func() string
}

func NewUploadService(store ObjectStore, logger *logrus.Logger, prefix string, maxFiles int, maxFileBytes int64) *UploadService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if prefix == "" {
		prefix = DefaultUploadPrefix
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &UploadService{
		Store:        store,
		Logger:       logger,
		Prefix:       prefix,
		MaxFiles:     maxFiles,
		MaxFileBytes: maxFileBytes,
		newName:      uuid.NewString,
	}
}

// UploadPhotos validates the batch as a whole and then stores it.
func (s *UploadService) UploadPhotos(ctx context.Context, files []UploadFile) ([]string, error) {
	if err := s.ValidateBatch(files); err != nil {
		uploadStats.Add("rejected_batches", 1)
		return nil, err
	}
	return s.UploadBatch(ctx, files)
}

// ValidateBatch rejects the whole batch if any file breaks a rule. Nothing is
// uploaded before every file has passed.
func (s *UploadService) ValidateBatch(files []UploadFile) error {
	if len(files) == 0 {
		return ValidationError("No files uploaded")
	}
	if len(files) > s.MaxFiles {
		return ValidationError(maxPhotosMessage(s.MaxFiles))
	}
	for _, f := range files {
		if !allowedPhotoType(f.ContentType) {
			return ValidationError("Invalid file type. Only JPEG, PNG, and WebP are allowed")
		}
	}
	for _, f := range files {
		if f.Size > s.MaxFileBytes {
			return ValidationError(fmt.Sprintf("File size too large. Maximum size is %dMB per file", s.MaxFileBytes/(1024*1024)))
		}
	}
	return nil
}

// UploadBatch stores every file concurrently and returns the addresses in
// input order. If any upload fails the whole batch fails and the objects that
// did land are deleted. Caller cancellation does not abort a running batch.
func (s *UploadService) UploadBatch(ctx context.Context, files []UploadFile) ([]string, error) {
	ctx = context.WithoutCancel(ctx)
	started := time.Now()

	urls := make([]string, len(files))
	keys := make([]string, len(files))

	var g errgroup.Group
	g.SetLimit(s.MaxFiles)
	for i, f := range files {
		g.Go(func() error {
			key := s.objectKey(f.Filename)
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open file %d: %w", i, err)
			}
			defer func() { _ = rc.Close() }()

			url, err := s.Store.Put(ctx, key, rc, f.Size, f.ContentType)
			if err != nil {
				return fmt.Errorf("store file %d: %w", i, err)
			}
			keys[i] = key
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uploadStats.Add("failed_batches", 1)
		s.Logger.WithError(err).WithField("files", len(files)).Error("photo batch upload failed")
		s.removeOrphans(ctx, keys)
		return nil, DependencyError("Failed to upload files", err)
	}

	uploadStats.Add("batches", 1)
	uploadStats.Add("files", int64(len(files)))
	s.Logger.WithFields(logrus.Fields{
		"files":   len(files),
		"elapsed": time.Since(started).String(),
	}).Debug("photo batch uploaded")
	return urls, nil
}

func (s *UploadService) removeOrphans(ctx context.Context, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("failed to delete orphaned photo")
			continue
		}
		uploadStats.Add("orphans_deleted", 1)
	}
}

// objectKey never reuses the client filename; only its extension survives.
func (s *UploadService) objectKey(filename string) string {
	return path.Join(s.Prefix, s.newName()+filepath.Ext(filename))
}

func allowedPhotoType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range AllowedPhotoTypes {
		if ct == t {
			return true
		}
	}
	return false
}

func maxPhotosMessage(n int) string {
	return fmt.Sprintf("You can only upload up to %d photos", n)
}
