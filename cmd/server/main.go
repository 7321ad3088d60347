package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"p24-gateway/internal/config"
	"p24-gateway/internal/db"
	"p24-gateway/internal/logger"
	"p24-gateway/internal/metrics"
	"p24-gateway/internal/middleware"
	"p24-gateway/internal/order"
	"p24-gateway/internal/payment"
	"p24-gateway/internal/payment/przelewy24"
	"p24-gateway/internal/payment/webhook"
	"p24-gateway/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := newServer(cfg, database, reg)

	logger.L().Info("server starting",
		zap.String("port", cfg.AppPort),
		zap.String("backend", cfg.Przelewy24.BackendName),
		zap.Bool("sandbox", cfg.Przelewy24.Sandbox),
	)
	return startServerFunc(":"+cfg.AppPort, handler)
}

func newServer(cfg *config.Config, database *sql.DB, reg *prometheus.Registry) http.Handler {
	m := metrics.New(reg)

	paymentRepo := payment.NewRepository(database)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	client := przelewy24.NewClient(cfg.Przelewy24.Sandbox, cfg.Przelewy24.HTTPTimeout, m)
	registrar := przelewy24.NewRegistrar(cfg.Przelewy24, cfg.Domain, client, orderSvc, orderSvc, m)
	reconciler := przelewy24.NewReconciler(cfg.Przelewy24, client, paymentRepo, m)

	webhookHandler := webhook.NewWebhookHandler(reconciler, paymentRepo, cfg.SuccessFallbackURL)
	paymentHandler := transport.NewPaymentHandler(paymentRepo, registrar)

	return setupRouter(webhookHandler, paymentHandler, reg, middleware.ServiceAuth(cfg.ServiceJWTSecret))
}

func setupRouter(
	webhookHandler *webhook.Handler,
	paymentHandler *transport.PaymentHandler,
	gatherer prometheus.Gatherer,
	serviceAuth func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST "+przelewy24.StatusRoute+"{$}", webhookHandler.StatusHandler)
	mux.HandleFunc("GET "+przelewy24.ReturnRoutePattern+"{$}", webhookHandler.ReturnHandler)

	mux.Handle("POST /payments/{id}/przelewy24", serviceAuth(http.HandlerFunc(paymentHandler.Register)))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
