package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

// photoField is the multipart field carrying the files.
const photoField = "images"

const maxUploadRequest = services.MaxPhotoBytes*services.MaxPhotosPerBatch + 1<<20

type PhotoController struct {
	photos *services.PhotoService
}

func NewPhotoController(photos *services.PhotoService) *PhotoController {
	return &PhotoController{photos: photos}
}

func (pc *PhotoController) Index(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	photos, err := pc.photos.List(c.Context(), pid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Collection(photos, resources.Photo))
}

// Store accepts multipart/form-data with one or more files under "images".
func (pc *PhotoController) Store(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxUploadRequest)
	if err := c.R.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Error(http.StatusRequestEntityTooLarge, "upload is too large")
			return
		}
		c.Error(http.StatusBadRequest, "expected multipart/form-data")
		return
	}
	defer c.R.MultipartForm.RemoveAll() //nolint:errcheck

	var uploads []services.Upload
	for _, fh := range c.R.MultipartForm.File[photoField] {
		uploads = append(uploads, services.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	photos, err := pc.photos.Upload(c.Context(), actor(c), pid, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resource.Collection(photos, resources.Photo))
}

func (pc *PhotoController) Destroy(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	photoID, ok := c.ParamUint("photo")
	if !ok {
		c.NotFound()
		return
	}
	if err := pc.photos.Delete(c.Context(), actor(c), pid, photoID); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
