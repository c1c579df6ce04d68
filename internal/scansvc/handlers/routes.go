package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	// page and its form posts, browsers pass the token in the jwt cookie
	r.Group(func(r chi.Router) {
		h.useAuth(r)

		r.Get("/", h.PageHandler)
		r.Post("/scan", h.PageScanHandler)
		r.Post("/import", h.PageImportHandler)
		r.Post("/clear", h.PageClearHandler)
		r.Get("/export", h.ExportHandler)
	})

	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			h.useAuth(r)

			r.Post("/scans", h.ScanHandler)
			r.Post("/scans/batch", h.BatchScanHandler)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", h.ListInventoryHandler)
				r.Delete("/", h.ClearInventoryHandler)
				r.Get("/summary", h.SummaryHandler)
				r.Get("/export", h.ExportHandler)
				r.Post("/import", h.ImportHandler)
				r.Get("/{id}", h.GetScanHandler)
				r.Delete("/{id}", h.DeleteScanHandler)
			})
		})
	})
}

func (h *Handler) useAuth(r chi.Router) {
	if h.tokenAuth == nil {
		return
	}
	r.Use(jwtauth.Verifier(h.tokenAuth))
	r.Use(jwtauth.Authenticator)
}

// InitAuth enables HS256 auth on the page and the /v1 API. An empty secret leaves both open.
func (h *Handler) InitAuth(secret string) {
	if secret == "" {
		log.Warn("JWT_SECRET_KEY not set, /v1 API is unauthenticated")
		return
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"service": h.serviceName,
		"exp":     expirationTime,
	})
	if err != nil {
		log.Errorf("Error [Handler.InitAuth] encoding debug token: %s", err)
		return
	}

	// For debugging only, comment it out in production
	log.Debugf("DEBUG: JWT for testing expires soon : %s", tokenString)
}
