// ledger-worker keeps the Google Sheets dashboard in step with the ledger:
// it consumes change events from the broker and re-exports the current
// month's report after every write.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	applog.Setup()
	logger := applog.For(applog.ComponentWorker)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required")
		os.Exit(1)
	}

	st, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	exporter, err := sheets.NewExporter(context.Background(), cfg.GoogleSpreadsheetID, cfg.ReportSheetName)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting worker",
		"queue", cfg.AMQPQueue,
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.ReportSheetName)

	err = client.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
		now := time.Now()
		year, month := now.Year(), int(now.Month())

		// Fresh mirror per event, so the export reads the writing
		// process's rows instead of a stale cache.
		totals, err := report.NewMonth(ledger.New(st), year, month).TotalsByCategory(ctx)
		if err != nil {
			return err
		}
		if err := exporter.ExportMonthReport(ctx, year, month, totals); err != nil {
			return err
		}

		logger.Info("Refreshed month report",
			"table", msg.Table, "id", msg.ID, "op", msg.Op,
			"year", year, "month", month, "labels", len(totals))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
