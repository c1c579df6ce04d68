package handlers

import (
	"net/http"

	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
)

// POST /v1/scans: multipart fields: front (required), back, hint, location.
func (h *Handler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	req, err := h.scanRequest(w, r)
	if err != nil {
		h.CreateError(w, r, err, "invalid scan upload")
		return
	}

	scan, err := h.scanService.Scan(r.Context(), req)
	if err != nil {
		h.CreateError(w, r, err, "analysis failed")
		return
	}

	h.CreateResponse(w, Response{
		Message: "analysis complete",
		Code:    http.StatusCreated,
		Data:    scan,
	})
}

// POST /v1/scans/batch: multipart fields: images (repeated), pairing, hint, location.
func (h *Handler) BatchScanHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, maxBatchImages); err != nil {
		h.CreateError(w, r, err, "invalid batch upload")
		return
	}

	images, err := formUploads(r, "images")
	if err != nil {
		h.CreateError(w, r, err, "invalid batch upload")
		return
	}

	result, err := h.scanService.ScanBatch(r.Context(), service.BatchRequest{
		Images:   images,
		Pairing:  formValue(r, "pairing"),
		Hint:     formValue(r, "hint"),
		Location: formValue(r, "location"),
	})
	if err != nil {
		h.CreateError(w, r, err, "batch analysis failed")
		return
	}

	code := http.StatusCreated
	message := "batch analysis complete"
	if len(result.Failures) > 0 {
		code = http.StatusMultiStatus
		message = "batch analysis finished with failures"
	}

	h.CreateResponse(w, Response{
		Message: message,
		Code:    code,
		Data:    result,
	})
}

func (h *Handler) scanRequest(w http.ResponseWriter, r *http.Request) (service.ScanRequest, error) {
	if err := h.parseForm(w, r, 2); err != nil {
		return service.ScanRequest{}, err
	}

	front, err := formUpload(r, "front")
	if err != nil {
		return service.ScanRequest{}, err
	}
	if front == nil {
		return service.ScanRequest{}, analyzer.ErrNoFrontImage
	}

	back, err := formUpload(r, "back")
	if err != nil {
		return service.ScanRequest{}, err
	}

	return service.ScanRequest{
		Front:    front,
		Back:     back,
		Hint:     formValue(r, "hint"),
		Location: formValue(r, "location"),
	}, nil
}
