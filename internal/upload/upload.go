package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeongwook5013/SecondHand-Shop/internal/apperr"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
)

const URLPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// FileStore validates uploaded images and persists them under Dir.
type FileStore struct {
	Dir     string
	MaxSize int64
}

// SaveImage validates the upload and writes it to disk, returning the
// relative reference path stored on the product.
func (s *FileStore) SaveImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := s.validate(file); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %v: %w", err, apperr.ErrStorage)
	}

	name := uniqueFileName(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %v: %w", err, apperr.ErrStorage)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %v: %w", err, apperr.ErrStorage)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %v: %w", err, apperr.ErrStorage)
	}

	logging.FromContext(ctx).Info("file uploaded", "name", name, "size", file.Size)
	return URLPrefix + name, nil
}

// DeleteImage removes a previously stored file. Best effort: failures are
// logged and never propagated to the owning operation.
func (s *FileStore) DeleteImage(ctx context.Context, fileURL string) {
	if !strings.HasPrefix(fileURL, URLPrefix) {
		return
	}
	name := strings.TrimPrefix(fileURL, URLPrefix)
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.FromContext(ctx).Warn("file delete failed", "path", path, "error", err)
	}
}

func (s *FileStore) validate(file *multipart.FileHeader) error {
	if file == nil || file.Size == 0 {
		return fmt.Errorf("empty file: %w", apperr.ErrValidation)
	}
	if file.Size > s.MaxSize {
		return fmt.Errorf("file exceeds %dMB limit: %w", s.MaxSize/1024/1024, apperr.ErrValidation)
	}
	if !allowedExtensions[fileExtension(file.Filename)] {
		return fmt.Errorf("file type not allowed: %w", apperr.ErrValidation)
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return fmt.Errorf("only image files can be uploaded: %w", apperr.ErrValidation)
	}
	return nil
}

func fileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// uniqueFileName builds <uuid8>_<yyyyMMdd_HHmmss>.<ext>, collision
// resistant through the random component.
func uniqueFileName(original string) string {
	return fmt.Sprintf("%s_%s.%s",
		uuid.NewString()[:8],
		time.Now().Format("20060102_150405"),
		fileExtension(original),
	)
}
