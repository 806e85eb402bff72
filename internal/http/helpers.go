package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}

	return year, month
}

// pathID parses the trailing id segment of a path like /api/expenses/42.
func pathID(r *http.Request, prefix string) (int64, error) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	return strconv.ParseInt(strings.Trim(raw, "/"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

// errorStatus maps the core error taxonomy onto HTTP statuses. Integrity
// and persistence failures are server-side conditions.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDataIntegrity):
		return http.StatusInternalServerError
	case errors.Is(err, core.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
