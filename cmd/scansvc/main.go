package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/cardscanner-services/configs"
	"github.com/avvvet/cardscanner-services/internal/nats"
	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/broker"
	handlers "github.com/avvvet/cardscanner-services/internal/scansvc/handlers"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "scan"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	settings := config.Load()

	// gemini client
	model, err := analyzer.NewGeminiModel(context.Background(), settings.GeminiAPIKey, settings.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	log.Infof("model client ready, using %s", model.Name())

	// Connect to NATS, events are optional
	var conn *natsgo.Conn
	if settings.NatsURL != "" {
		n, err := nats.Connect(settings.NatsURL, settings.NatsToken, SERVICE_NAME+"_service")
		if err != nil {
			log.Errorf("Error: unable to connect to NATS server %v, scan events disabled", err)
		} else {
			defer n.Conn.Close()
			conn = n.Conn
			log.Printf("NATS connection established successfully %s", n.Url)
		}
	}

	b := broker.NewBroker(conn, instanceId)
	hbCtx, stopHeartbeat := context.WithCancel(context.Background())
	go b.StartHeartbeat(hbCtx, 5*time.Second)

	inventoryStore := store.NewInventoryStore()
	scanService := service.NewScanService(analyzer.NewAnalyzer(model), inventoryStore, b,
		settings.MaxUploadBytes, settings.BatchConcurrency)
	inventoryService := service.NewInventoryService(inventoryStore, b)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(settings.AllowedOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(settings.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(scanService, inventoryService, settings.MaxUploadBytes, SERVICE_NAME)
	h.InitAuth(settings.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + settings.ScanPort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	stopHeartbeat()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
