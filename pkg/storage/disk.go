// Package storage is the filesystem abstraction product photos are written
// through. Two drivers exist:
//   - "local"  local filesystem, served under STORAGE_URL
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	m, _ := storage.Connect(ctx)
//	disk := m.Default()
//	_ = disk.Put(ctx, "products/1/a.jpg", file, "image/jpeg")
//	url := disk.URL("products/1/a.jpg")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get for a missing object.
var ErrNotExist = errors.New("storage: object does not exist")

// Disk is the driver interface. Paths are slash-separated keys.
type Disk interface {
	Name() string

	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
