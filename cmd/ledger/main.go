package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/config"
	apphttp "ledger/internal/http"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/storage"
	"ledger/internal/store"
	"ledger/internal/store/memstore"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	applog.Setup()
	logger := applog.For(applog.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var st store.Store
	switch cfg.DataBackend {
	case "sqlite":
		sqliteStore, err := storage.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		st = sqliteStore
	default:
		st = seededMemstore()
	}
	logger.Info("Initialized data backend", "backend", cfg.DataBackend)

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer events.Close()
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger.New(st), events, cfg.ReportCacheSize, cfg.ReportCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting ledger server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// seededMemstore backs the zero-infrastructure memory backend with a few
// starter categories so the API is usable out of the box.
func seededMemstore() *memstore.Store {
	st := memstore.New()
	st.Seed(map[store.Table][]store.CategoryRow{
		store.ExpenseCategories: {
			{ID: 1, Name: "Groceries"},
			{ID: 2, Name: "Rent"},
			{ID: 3, Name: "Transport"},
		},
		store.IncomeCategories: {
			{ID: 1, Name: "Salary"},
			{ID: 2, Name: "Gift"},
		},
		store.PaymentMethods: {
			{ID: 1, Name: "Cash"},
			{ID: 2, Name: "Credit Card"},
			{ID: 3, Name: "Bank Transfer"},
		},
	}, nil)
	return st
}
