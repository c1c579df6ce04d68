package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

const maxBatchImages = 24

type Handler struct {
	tokenAuth        *jwtauth.JWTAuth
	scanService      *service.ScanService
	inventoryService *service.InventoryService
	maxUploadBytes   int64
	serviceName      string
}

func NewHandler(scanService *service.ScanService, inventoryService *service.InventoryService, maxUploadBytes int64, serviceName string) *Handler {
	return &Handler{
		scanService:      scanService,
		inventoryService: inventoryService,
		maxUploadBytes:   maxUploadBytes,
		serviceName:      serviceName,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// CreateError logs the full error and answers with a short client message.
func (h *Handler) CreateError(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := statusFor(err)
	log.WithField("path", r.URL.Path).Errorf("Error [%s] %d: %s", message, code, err)

	h.CreateResponse(w, Response{Message: message, Code: code, Error: clientError(err, code)})
}

// clientError is the error text a client may see. Server-side failures other
// than an unusable model reply only get the status text.
func clientError(err error, code int) string {
	if code < http.StatusInternalServerError || code == http.StatusBadGateway {
		return err.Error()
	}
	return http.StatusText(code)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr),
		errors.Is(err, analyzer.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, analyzer.ErrNoFrontImage),
		errors.Is(err, analyzer.ErrUnsupportedImage),
		errors.Is(err, service.ErrNoImages),
		errors.Is(err, service.ErrInvalidPairing),
		errors.Is(err, service.ErrInvalidImportMode),
		errors.Is(err, store.ErrInvalidCSV),
		errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrScanNotFound):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrEmptyReply),
		errors.Is(err, analyzer.ErrInvalidReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: h.serviceName + " service is running",
		Code:    http.StatusOK,
		Data: map[string]int{
			"inventory": len(h.inventoryService.List()),
		},
	})
}
