// ledger-export renders one month's merged category report into a Google
// Sheets dashboard. It reads the same SQLite database as the server.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup().With("component", applog.ComponentExport)

	now := time.Now()
	year := flag.Int("year", now.Year(), "report year")
	month := flag.Int("month", int(now.Month()), "report month (1-12)")
	flag.Parse()

	cfg := config.Load()
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

	ctx := context.Background()

	totals, err := report.NewMonth(ledger.New(st), *year, *month).TotalsByCategory(ctx)
	if err != nil {
		logger.Error("Failed to build month report", "error", err, "year", *year, "month", *month)
		os.Exit(1)
	}

	exporter, err := sheets.NewExporter(ctx, cfg.GoogleSpreadsheetID, cfg.ReportSheetName)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	if err := exporter.ExportMonthReport(ctx, *year, *month, totals); err != nil {
		logger.Error("Failed to export month report", "error", err)
		os.Exit(1)
	}

	logger.Info("Exported month report",
		"year", *year,
		"month", *month,
		"labels", len(totals),
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.ReportSheetName)
}
