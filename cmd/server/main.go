package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/config"
	"github.com/mmynk/splitbill/internal/httpserver"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/scan"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage/sqlite"
	"github.com/mmynk/splitbill/pkg/api/apiconnect"
	"github.com/mmynk/splitbill/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsesDevSecret() {
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	opts := []service.Option{service.WithMetrics(metrics.New(prometheus.DefaultRegisterer))}
	if cfg.ScanEnabled() {
		opts = append(opts, service.WithScanner(scan.NewClient(cfg.ScanURL, cfg.ScanTimeout), cfg.ScanTimeout))
		slog.Info("Receipt scanning enabled", "url", cfg.ScanURL, "timeout", cfg.ScanTimeout)
	} else {
		slog.Warn("SCAN_URL not set, receipt scanning disabled")
	}

	mux := http.NewServeMux()

	billPath, billHandler := apiconnect.NewBillServiceHandler(
		service.NewBillService(store, tokens, opts...),
		connect.WithInterceptors(
			middleware.LoggingInterceptor(),
			middleware.RequireBillToken(tokens),
		),
	)
	mux.Handle(billPath, billHandler)
	mux.Handle("/metrics", promhttp.Handler())

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.HandleFunc("/", staticHandler(staticDir))

	handler := middleware.LogRequests(middleware.CORS(cfg.AllowedOrigin)(mux))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Run(ctx, httpserver.New(cfg.Addr, handler)); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// staticHandler serves the frontend. Unknown paths fall back to index.html.
func staticHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+apiconnect.BillServiceName+"/") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
