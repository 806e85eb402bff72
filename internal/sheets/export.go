// Package sheets exports month reports to a Google Sheets dashboard.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"ledger/internal/core"
	"ledger/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewExporter creates a Sheets exporter using Service Account credentials
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewExporter(ctx context.Context, spreadsheetID, sheetName string) (*Exporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Report"
	}

	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}

	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// ExportMonthReport writes the merged category totals for one month into
// the configured sheet, starting at A1. Grand totals come first, category
// labels follow alphabetically.
func (e *Exporter) ExportMonthReport(ctx context.Context, year, month int, totals map[string]core.Money) error {
	values := [][]any{
		{fmt.Sprintf("%04d-%02d", year, month), ""},
		{"Label", "Amount"},
	}
	for _, label := range ReportLabels(totals) {
		values = append(values, []any{label, totals[label].String()})
	}

	rangeRef := fmt.Sprintf("%s!A1", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.
		Update(e.spreadsheetID, rangeRef, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update range %s: %w", rangeRef, err)
	}
	return nil
}

// ReportLabels orders the report keys for display: the two synthetic grand
// totals first, then category labels sorted alphabetically.
func ReportLabels(totals map[string]core.Money) []string {
	labels := make([]string, 0, len(totals))
	for label := range totals {
		if label == report.TotalExpensesLabel || label == report.TotalIncomeLabel {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]string, 0, len(totals))
	if _, ok := totals[report.TotalExpensesLabel]; ok {
		out = append(out, report.TotalExpensesLabel)
	}
	if _, ok := totals[report.TotalIncomeLabel]; ok {
		out = append(out, report.TotalIncomeLabel)
	}
	return append(out, labels...)
}
