package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
)

func (h *Handler) ListInventoryHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "inventory",
		Code:    http.StatusOK,
		Data:    h.inventoryService.List(),
	})
}

func (h *Handler) GetScanHandler(w http.ResponseWriter, r *http.Request) {
	scan, err := h.inventoryService.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.CreateError(w, r, err, "scan lookup failed")
		return
	}

	h.CreateResponse(w, Response{Message: "scan", Code: http.StatusOK, Data: scan})
}

func (h *Handler) DeleteScanHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.inventoryService.Delete(id); err != nil {
		h.CreateError(w, r, err, "scan delete failed")
		return
	}

	h.CreateResponse(w, Response{Message: "scan deleted", Code: http.StatusOK, Data: map[string]string{"id": id}})
}

func (h *Handler) ClearInventoryHandler(w http.ResponseWriter, r *http.Request) {
	n := h.inventoryService.Clear()
	h.CreateResponse(w, Response{Message: "inventory cleared", Code: http.StatusOK, Data: map[string]int{"removed": n}})
}

func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{Message: "inventory summary", Code: http.StatusOK, Data: h.inventoryService.Summary()})
}

// GET /v1/inventory/export: the whole inventory as a CSV download.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.inventoryService.Export(&buf); err != nil {
		h.CreateError(w, r, err, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// POST /v1/inventory/import?mode=replace|append: multipart field: file.
func (h *Handler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.importCSV(w, r)
	if err != nil {
		h.CreateError(w, r, err, "import failed")
		return
	}

	h.CreateResponse(w, Response{
		Message: "inventory imported",
		Code:    http.StatusOK,
		Data:    map[string]int{"imported": n, "inventory": len(h.inventoryService.List())},
	})
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) (int, error) {
	if err := h.parseForm(w, r, 1); err != nil {
		return 0, err
	}

	file, err := formUpload(r, "file")
	if err != nil {
		return 0, err
	}
	if file == nil {
		return 0, fmt.Errorf("%w: file is required", errBadForm)
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = formValue(r, "mode")
	}

	return h.inventoryService.Import(bytes.NewReader(file.Data), mode)
}
