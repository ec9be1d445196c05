package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	catalogapp "github.com/dwikikusuma/order-service/internal/catalog/app"
	catalogmem "github.com/dwikikusuma/order-service/internal/catalog/infra/memory"
	catalogpg "github.com/dwikikusuma/order-service/internal/catalog/infra/postgres"

	orderapp "github.com/dwikikusuma/order-service/internal/order/app"
	orderkafka "github.com/dwikikusuma/order-service/internal/order/infra/kafka"
	ordermem "github.com/dwikikusuma/order-service/internal/order/infra/memory"
	orderpg "github.com/dwikikusuma/order-service/internal/order/infra/postgres"

	reservationapp "github.com/dwikikusuma/order-service/internal/reservation/app"
	reservationadapter "github.com/dwikikusuma/order-service/internal/reservation/infra/adapter"

	"github.com/dwikikusuma/order-service/pkg/config"
	"github.com/dwikikusuma/order-service/pkg/logger"
	"github.com/dwikikusuma/order-service/pkg/metrics"
	"github.com/dwikikusuma/order-service/pkg/postgres"
	"github.com/dwikikusuma/order-service/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "order-service", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	var (
		productRepo catalogapp.ProductRepo
		orderRepo   orderapp.OrderRepo
	)

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.Open(ctx, postgres.Config{
			Host: cfg.PostgresHost,
			Port: cfg.PostgresPort,
			User: cfg.PostgresUser,
			Pass: cfg.PostgresPass,
			DB:   cfg.PostgresDB,
		})
		if err != nil {
			log.Error("db open failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer pool.Close()
		productRepo = catalogpg.NewProductRepo(pool)
		orderRepo = orderpg.NewOrderRepo(pool)
	default:
		productRepo = catalogmem.NewProductRepo()
		orderRepo = ordermem.NewOrderRepo()
	}

	catalogSvc := catalogapp.NewService(productRepo)

	stockStore := reservationadapter.NewCatalogStockStore(catalogSvc)
	engine := reservationapp.NewEngine(stockStore, log, 10)

	var events orderapp.EventPublisher
	if cfg.KafkaBrokers != "" {
		pub := orderkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		events = pub
	}

	orderSvc := orderapp.NewService(orderRepo, engine, events, log)

	srvMetrics := metrics.NewServerMetrics("api")
	a := &api{products: catalogSvc, orders: orderSvc, log: log}

	mux := http.NewServeMux()
	a.routes(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           withMetrics(srvMetrics, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("store", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withMetrics(m *metrics.ServerMetrics, mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		mux.ServeHTTP(rec, r)

		// Label by route pattern, not raw path, to keep cardinality bounded.
		_, handler := mux.Handler(r)
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(rec.status)).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	})
}
