package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"github.com/hustlcampus/hustl/pkg/storage"
)

// Upload is an image sent with a form. Filename is the client-supplied
// name and is only used for its extension.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ImageStore validates and stores uploaded images on a disk.
type ImageStore struct {
	disk    storage.Disk
	allowed map[string]bool
	list    string
}

func NewImageStore(disk storage.Disk, allowed []string) *ImageStore {
	s := &ImageStore{disk: disk, allowed: map[string]bool{}}
	var names []string
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" && !s.allowed[ext] {
			s.allowed[ext] = true
			names = append(names, strings.ToUpper(ext))
		}
	}
	s.list = strings.Join(names, ", ")
	return s
}

// Check returns the lower-cased extension of u, or a validation error when
// it is not on the allow-list. It never touches storage.
func (s *ImageStore) Check(u *Upload) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(u.Filename)), "."))
	if ext == "" || !s.allowed[ext] {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		return "", invalid("image", fmt.Sprintf("Only %s images are allowed.", s.list))
	}
	return ext, nil
}

// Save stores u under a fresh random name and returns that name. Check
// must have accepted ext.
func (s *ImageStore) Save(ctx context.Context, u *Upload, ext string) (string, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	if err := s.disk.PutStream(ctx, name, u.Body); err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("%w: put %s: %v", ErrStorage, name, err)
	}
	metrics.Uploads.WithLabelValues("stored").Inc()
	return name, nil
}

// Remove deletes a stored image. The shared default image is never removed.
func (s *ImageStore) Remove(ctx context.Context, name string) error {
	if name == "" || name == models.DefaultImage {
		return nil
	}
	if err := s.disk.Delete(ctx, name); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorage, name, err)
	}
	return nil
}

// discard removes an image after a failed insert; failures are only logged.
func (s *ImageStore) discard(ctx context.Context, name string) {
	if err := s.Remove(ctx, name); err != nil {
		logger.WithCtx(ctx).Error("remove orphaned image", "image", name, "error", err)
	}
}

// URL is the public address of a stored image.
func (s *ImageStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.disk.URL(name)
}
