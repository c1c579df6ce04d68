package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
)

var errBadForm = errors.New("invalid multipart form")

// parseForm limits the request body and parses the multipart form.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, files int) error {
	limit := h.maxUploadBytes*int64(files) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %s", errBadForm, err)
	}
	return nil
}

// formUpload reads an optional single file field. A missing field is nil, not an error.
func formUpload(r *http.Request, field string) (*service.Upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	u, err := readUpload(r.MultipartForm.File[field][0])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func formUploads(r *http.Request, field string) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > maxBatchImages {
		return nil, fmt.Errorf("%w: at most %d images per batch", errBadForm, maxBatchImages)
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return service.Upload{Filename: fh.Filename, Data: data}, nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
