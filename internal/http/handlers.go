package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/report"
)

type categoryJSON struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind,omitempty"`
	Name string `json:"name"`
}

type transactionJSON struct {
	ID       int64        `json:"id"`
	Amount   core.Money   `json:"amount"`
	Date     string       `json:"date"`
	Category categoryJSON `json:"category"`
	Method   categoryJSON `json:"method"`
	Comment  string       `json:"comment"`
}

type transactionRequest struct {
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	CategoryID int64  `json:"category_id"`
	MethodID   int64  `json:"method_id"`
	Comment    string `json:"comment"`
}

func categoryToJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Kind: string(c.Kind), Name: c.Name}
}

func transactionToJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:       t.ID,
		Amount:   t.Amount,
		Date:     t.Date.String(),
		Category: categoryToJSON(t.Category),
		Method:   categoryToJSON(t.Method),
		Comment:  t.Comment,
	}
}

// bookFromQuery resolves the registry named by the kind query parameter.
func (s *Server) bookFromQuery(r *http.Request) (*ledger.CategoryBook, error) {
	kind := core.CategoryKind(r.URL.Query().Get("kind"))
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown category kind %q", kind)
	}
	return s.ledger.Book(kind), nil
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		book, err := s.bookFromQuery(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		cats, err := book.LoadAll(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		out := make([]categoryJSON, len(cats))
		for i, c := range cats {
			out[i] = categoryToJSON(c)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, fmt.Errorf("decode request: %w", err))
			return
		}
		kind := core.CategoryKind(req.Kind)
		if !kind.Valid() {
			writeErr(w, fmt.Errorf("unknown category kind %q", req.Kind))
			return
		}
		book := s.ledger.Book(kind)
		id, err := book.AddNew(r.Context(), req.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		s.invalidate(r, string(book.Table()), id, "created")
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "/api/categories/")
	if err != nil {
		writeErr(w, fmt.Errorf("invalid category id: %w", err))
		return
	}
	book, err := s.bookFromQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		cat, err := book.LoadByID(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, categoryToJSON(cat))

	case http.MethodPut:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, fmt.Errorf("decode request: %w", err))
			return
		}
		saved, err := book.Save(r.Context(), core.Category{ID: id, Kind: book.Kind(), Name: req.Name})
		if err != nil {
			writeErr(w, err)
			return
		}
		if saved {
			s.invalidate(r, string(book.Table()), id, "updated")
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// buildTransaction turns a request body into an entity, resolving both
// references so a dangling id fails before it reaches the mirror.
func buildTransaction(r *http.Request, txs *ledger.Transactions, id int64) (core.Transaction, error) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return core.Transaction{}, fmt.Errorf("decode request: %w", err)
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", req.Amount)
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q", req.Date)
	}
	category, err := txs.Categories().LoadByID(r.Context(), req.CategoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, fmt.Errorf("unknown category id %d", req.CategoryID)
		}
		return core.Transaction{}, err
	}
	method, err := txs.Methods().LoadByID(r.Context(), req.MethodID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, fmt.Errorf("unknown payment method id %d", req.MethodID)
		}
		return core.Transaction{}, err
	}

	return core.Transaction{
		ID:       id,
		Amount:   amount,
		Date:     date,
		Category: category,
		Method:   method,
		Comment:  req.Comment,
	}, nil
}

// transactionsHandler serves list and create for one transaction kind; the
// same handler backs /api/expenses and /api/incomes.
func (s *Server) transactionsHandler(txs *ledger.Transactions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var (
				entities []core.Transaction
				err      error
			)
			if r.URL.Query().Has("year") || r.URL.Query().Has("month") {
				year, month := parseYearMonth(r)
				entities, err = txs.LoadOfMonth(r.Context(), year, month)
			} else {
				entities, err = txs.LoadAll(r.Context())
			}
			if err != nil {
				writeErr(w, err)
				return
			}
			out := make([]transactionJSON, len(entities))
			for i, e := range entities {
				out[i] = transactionToJSON(e)
			}
			writeJSON(w, http.StatusOK, out)

		case http.MethodPost:
			entity, err := buildTransaction(r, txs, 0)
			if err != nil {
				writeErr(w, err)
				return
			}
			id, err := txs.AddNew(r.Context(), entity)
			if err != nil {
				writeErr(w, err)
				return
			}
			s.invalidate(r, string(txs.Table()), id, "created")
			writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) transactionByIDHandler(txs *ledger.Transactions, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, prefix)
		if err != nil {
			writeErr(w, fmt.Errorf("invalid transaction id: %w", err))
			return
		}

		switch r.Method {
		case http.MethodGet:
			entity, err := txs.LoadByID(r.Context(), id)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, http.StatusOK, transactionToJSON(entity))

		case http.MethodPut:
			entity, err := buildTransaction(r, txs, id)
			if err != nil {
				writeErr(w, err)
				return
			}
			saved, err := txs.Save(r.Context(), entity)
			if err != nil {
				writeErr(w, err)
				return
			}
			if saved {
				s.invalidate(r, string(txs.Table()), id, "updated")
			}
			writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})

		case http.MethodDelete:
			if err := txs.Delete(r.Context(), id); err != nil {
				writeErr(w, err)
				return
			}
			s.invalidate(r, string(txs.Table()), id, "deleted")
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year, month := parseYearMonth(r)
	key := fmt.Sprintf("%04d-%02d", year, month)

	totals, ok := s.reportCache.Get(key)
	if !ok {
		var err error
		totals, err = report.NewMonth(s.ledger, year, month).TotalsByCategory(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		s.reportCache.Set(key, totals)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"month":  month,
		"totals": totals,
	})
}

func (s *Server) handleCategoryTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year, month := parseYearMonth(r)
	kind := r.URL.Query().Get("kind")
	name := r.URL.Query().Get("name")

	total, err := report.NewMonth(s.ledger, year, month).CategoryTotal(r.Context(), kind, name)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": month,
		"kind":  kind,
		"name":  name,
		"total": total,
	})
}
