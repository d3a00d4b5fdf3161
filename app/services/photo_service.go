package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
	"github.com/shashiranjanraj/shopfront/pkg/workerpool"
)

const (
	MaxPhotoBytes     = 10 << 20
	MaxPhotosPerBatch = 10
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ErrInvalidUpload is returned for files that are too large or not images.
var ErrInvalidUpload = errors.New("invalid upload")

// Upload is one file of a multipart request. Open may be called more than
// once; each call returns a fresh reader from the start.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type sniffed struct {
	upload Upload
	mime   string
	ext    string
}

type PhotoService struct {
	products *repositories.ProductRepository
	disks    *storage.Manager
	pool     *workerpool.Pool
	store    cache.Store
}

func NewPhotoService(products *repositories.ProductRepository, disks *storage.Manager, pool *workerpool.Pool, store cache.Store) *PhotoService {
	return &PhotoService{products: products, disks: disks, pool: pool, store: store}
}

func (s *PhotoService) sniff(u Upload) (sniffed, error) {
	if u.Size > MaxPhotoBytes {
		return sniffed{}, fmt.Errorf("%w: %s is larger than %d bytes", ErrInvalidUpload, u.Filename, MaxPhotoBytes)
	}
	rc, err := u.Open()
	if err != nil {
		return sniffed{}, fmt.Errorf("photos: open %s: %w", u.Filename, err)
	}
	defer rc.Close()

	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return sniffed{}, fmt.Errorf("photos: detect %s: %w", u.Filename, err)
	}
	if !allowedPhotoTypes[mt.String()] {
		return sniffed{}, fmt.Errorf("%w: %s is %s, not an image", ErrInvalidUpload, u.Filename, mt.String())
	}
	return sniffed{upload: u, mime: mt.String(), ext: mt.Extension()}, nil
}

// Upload stores the files on the default disk concurrently and records a
// photo row for each. Either every file is stored and recorded or none is.
func (s *PhotoService) Upload(ctx context.Context, actor Actor, productID uint, uploads []Upload) ([]models.ProductPhoto, error) {
	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return nil, translate("photos: upload", err)
	}
	if !actor.can(p.OwnerID) {
		return nil, ErrForbidden
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files in field \"images\"", ErrInvalidUpload)
	}
	if len(uploads) > MaxPhotosPerBatch {
		return nil, fmt.Errorf("%w: at most %d files per request", ErrInvalidUpload, MaxPhotosPerBatch)
	}

	files := make([]sniffed, len(uploads))
	for i, u := range uploads {
		if files[i], err = s.sniff(u); err != nil {
			return nil, err
		}
	}

	disk := s.disks.Default()
	photos := make([]models.ProductPhoto, len(files))
	for i, f := range files {
		key := path.Join("products", fmt.Sprint(productID), uuid.NewString()+f.ext)
		photos[i] = models.ProductPhoto{ProductID: productID, Disk: disk.Name(), Path: key, URL: disk.URL(key)}
	}

	stored := make([]bool, len(files))
	err = workerpool.Each(ctx, s.pool, len(files), func(ctx context.Context, i int) error {
		rc, err := files[i].upload.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := disk.Put(ctx, photos[i].Path, rc, files[i].mime); err != nil {
			metrics.PhotoUploads.WithLabelValues(disk.Name(), "error").Inc()
			return err
		}
		metrics.PhotoUploads.WithLabelValues(disk.Name(), "ok").Inc()
		stored[i] = true
		return nil
	})
	if err != nil {
		s.purge(ctx, storedOnly(photos, stored))
		return nil, fmt.Errorf("photos: store: %w", err)
	}

	if err := s.products.AddPhotos(ctx, photos); err != nil {
		s.purge(ctx, photos)
		return nil, translate("photos: record", err)
	}

	s.forgetProduct(ctx, productID)
	logger.WithCtx(ctx).Info("photos: uploaded", "product_id", productID, "count", len(photos), "disk", disk.Name())
	return photos, nil
}

func storedOnly(photos []models.ProductPhoto, stored []bool) []models.ProductPhoto {
	var out []models.ProductPhoto
	for i, ok := range stored {
		if ok {
			out = append(out, photos[i])
		}
	}
	return out
}

func (s *PhotoService) List(ctx context.Context, productID uint) ([]models.ProductPhoto, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		return nil, translate("photos: list", err)
	}
	out, err := s.products.Photos(ctx, productID)
	return out, translate("photos: list", err)
}

// Delete removes one photo row and its stored object.
func (s *PhotoService) Delete(ctx context.Context, actor Actor, productID, photoID uint) error {
	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return translate("photos: delete", err)
	}
	if !actor.can(p.OwnerID) {
		return ErrForbidden
	}
	photo, err := s.products.FindPhoto(ctx, productID, photoID)
	if err != nil {
		return translate("photos: delete", err)
	}
	if err := s.products.DeletePhoto(ctx, photoID); err != nil {
		return translate("photos: delete", err)
	}
	s.purge(ctx, []models.ProductPhoto{photo})
	s.forgetProduct(ctx, productID)
	return nil
}

// purge deletes stored objects. Failures are logged; the rows are already
// gone and a stray object is harmless.
func (s *PhotoService) purge(ctx context.Context, photos []models.ProductPhoto) {
	for _, ph := range photos {
		disk, err := s.disks.Disk(ph.Disk)
		if err != nil {
			logger.WithCtx(ctx).Warn("photos: purge skipped", "path", ph.Path, "error", err)
			continue
		}
		if err := disk.Delete(ctx, ph.Path); err != nil {
			logger.WithCtx(ctx).Warn("photos: purge failed", "path", ph.Path, "error", err)
		}
	}
}

func (s *PhotoService) forgetProduct(ctx context.Context, id uint) {
	if err := s.store.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("photos: cache invalidation failed", "product_id", id, "error", err)
	}
}
