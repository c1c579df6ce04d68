package routes

import (
	"github.com/avvvet/cardscanner-services/internal/socketsvc/broker"
	"github.com/avvvet/cardscanner-services/internal/socketsvc/handlers"
	"github.com/avvvet/cardscanner-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

var tokenAuth *jwtauth.JWTAuth

func SetRoutes(r *chi.Mux, ws *ws.Ws, b *broker.Broker) {
	h := handlers.NewHandler(ws, b)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// Secure routes, browsers pass the token in the jwt cookie
		r.Group(func(r chi.Router) {
			if tokenAuth != nil {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Get("/ws", h.HandleWebSocket)
		})
	})
}

// InitAuth protects the websocket endpoint. An empty secret leaves it open.
func InitAuth(secret string) {
	if secret == "" {
		tokenAuth = nil
		log.Warn("JWT_SECRET_KEY not set, /v1/ws is unauthenticated")
		return
	}
	tokenAuth = jwtauth.New("HS256", []byte(secret), nil)
}
