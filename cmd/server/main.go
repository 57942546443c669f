package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/famiglia/internal/auth"
	"github.com/mmynk/famiglia/internal/config"
	"github.com/mmynk/famiglia/internal/events"
	"github.com/mmynk/famiglia/internal/middleware"
	"github.com/mmynk/famiglia/internal/receipt"
	"github.com/mmynk/famiglia/internal/service"
	"github.com/mmynk/famiglia/internal/storage/sqlite"
	"github.com/mmynk/famiglia/pkg/api/apiconnect"
	"github.com/mmynk/famiglia/pkg/logging"
)

const (
	appName    = "Famiglia Budget API"
	appVersion = "1.0.0"

	// maxRequestBytes fits a base64 encoded receipt image plus the JSON envelope.
	maxRequestBytes = 8 << 20

	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Payment events
	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info("Publishing payment events to AMQP", "exchange", cfg.AMQPExchange)
	}
	worker := events.NewWorker(publisher, cfg.EventBufferSize, logger)
	worker.Start()
	defer worker.Stop()

	// Receipt text extraction
	var extractor receipt.Extractor = receipt.Disabled{}
	if cfg.ReceiptsEnabled() {
		vision, err := receipt.NewVisionExtractor(ctx, cfg.VisionAPIKey, cfg.VisionEndpoint, cfg.VisionTimeout)
		if err != nil {
			return err
		}
		extractor = vision
		logger.Info("Receipt text extraction enabled")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	handlerOpts := []connect.HandlerOption{
		connect.WithInterceptors(
			middleware.NewMetrics(registry).Interceptor(),
			middleware.LoggingInterceptor(logger),
			middleware.RequireAuth(jwtManager,
				apiconnect.AuthServiceRegisterProcedure,
				apiconnect.AuthServiceLoginProcedure,
			),
		),
		connect.WithReadMaxBytes(maxRequestBytes),
	}

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), handlerOpts...))
	mux.Handle(apiconnect.NewGroupServiceHandler(
		service.NewGroupService(store, logger), handlerOpts...))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		service.NewExpenseService(store, extractor, logger), handlerOpts...))
	mux.Handle(apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(store, worker, service.NewSettlementMetrics(registry), logger), handlerOpts...))

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("GET /healthz", healthHandler)

	if cfg.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.StaticPath)
		if err != nil {
			return err
		}
		logger.Info("Serving static files", "path", staticDir)
		mux.Handle("/", staticHandler(staticDir))
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"name":    appName,
		"version": appVersion,
	})
}

// staticHandler serves the frontend. Unknown paths fall back to index.html.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Connect procedures are registered on their own prefixes
		if strings.HasPrefix(r.URL.Path, "/famiglia.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
