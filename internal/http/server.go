// Package http serves the ledger's JSON API: category and transaction CRUD
// plus month reports. Month reports are served through a small LRU cache
// that every write purges.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

type Server struct {
	http.Server

	ledger *ledger.Ledger
	events *amqp.Client
	logger *slog.Logger

	reportCache *lruCache[map[string]core.Money]
}

func NewServer(addr string, l *ledger.Ledger, events *amqp.Client, cacheSize int, cacheTTL time.Duration) *Server {
	s := &Server{
		ledger:      l,
		events:      events,
		logger:      applog.For(applog.ComponentHTTP),
		reportCache: newLRUCache[map[string]core.Money](cacheSize, cacheTTL),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/", s.handleCategoryByID)
	mux.HandleFunc("/api/expenses", s.transactionsHandler(l.Expenses))
	mux.HandleFunc("/api/expenses/", s.transactionByIDHandler(l.Expenses, "/api/expenses/"))
	mux.HandleFunc("/api/incomes", s.transactionsHandler(l.Incomes))
	mux.HandleFunc("/api/incomes/", s.transactionByIDHandler(l.Incomes, "/api/incomes/"))
	mux.HandleFunc("/api/report", s.handleMonthReport)
	mux.HandleFunc("/api/report/category", s.handleCategoryTotal)

	s.Addr = addr
	s.Handler = mux
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// invalidate drops cached reports and publishes a change event. Publishing
// is best-effort: the write already succeeded, so a broker hiccup is only
// logged.
func (s *Server) invalidate(r *http.Request, table string, id int64, op string) {
	s.reportCache.Purge()
	if err := s.events.PublishChange(r.Context(), table, id, op); err != nil {
		s.logger.Error("Failed to publish change event",
			"table", table, "id", id, "op", op, "error", err)
	}
}
