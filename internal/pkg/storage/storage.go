// Package storage uploads user files (trip photos, avatars) to the configured
// backend and returns a public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"matchtrip-be/internal/config"
	"matchtrip-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// New picks the backend from cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg.Region, cfg.Bucket, cfg.Endpoint, cfg.PublicBaseURL)
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket, cfg.GCSCredentials, cfg.PublicBaseURL)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ObjectKey builds "<folder>/<yyyy/mm>/<uuid><ext>".
func ObjectKey(folder, contentType string, now time.Time) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	return path.Join(folder, now.Format("2006/01"), uuid.NewString()+ext), nil
}

// UploadImage validates a multipart image and stores it under folder.
func UploadImage(ctx context.Context, s Storage, folder string, file *multipart.FileHeader, maxBytes int64) (string, error) {
	if maxBytes > 0 && file.Size > maxBytes {
		return "", apperror.BadRequest(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	key, err := ObjectKey(folder, contentType, time.Now())
	if err != nil {
		return "", apperror.BadRequest(err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return s.Upload(ctx, key, src, file.Size, contentType)
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + filepath.ToSlash(key)
}
