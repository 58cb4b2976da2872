// Package storage is the object storage abstraction used for uploaded
// images.
//
// Two drivers back real deployments:
//   - "local": a directory on the local filesystem, served under STORAGE_URL
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// A third, "memory", keeps objects in process and is used by tests.
//
//	storage.Connect()
//	disk := storage.Default()
//	err := disk.PutStream(ctx, "4f1c...e2.png", file)
//	url := disk.URL("4f1c...e2.png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get for a missing object.
var ErrNotExist = errors.New("storage: object does not exist")

// Disk is the driver interface.
type Disk interface {
	// PutStream writes r to path, replacing any existing object.
	PutStream(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
