package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type createTransactionRequest struct {
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Date        string      `json:"date"`
	Note        string      `json:"note"`
}

type transactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Date        string  `json:"date"`
	Note        string  `json:"note,omitempty"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Kind),
		Amount:      tx.Amount.Units(),
		Category:    tx.Category,
		Subcategory: tx.Subcategory,
		Date:        tx.OccurredAt.UTC().Format(time.RFC3339),
		Note:        tx.Note,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, core.NewValidationError("invalid request body: %v", err))
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		writeError(w, r, core.NewValidationError("invalid amount %q: %v", req.Amount.String(), err))
		return
	}

	var occurredAt time.Time
	if d := strings.TrimSpace(req.Date); d != "" {
		occurredAt, err = parseDate(d)
		if err != nil {
			writeError(w, r, core.NewValidationError("invalid date %q: expected YYYY-MM-DD or RFC 3339", d))
			return
		}
	}

	tx, err := s.transactions.Create(r.Context(), core.Transaction{
		Owner:       owner,
		Kind:        core.Kind(strings.ToLower(sanitizeInput(req.Type))),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Subcategory: sanitizeInput(req.Subcategory),
		OccurredAt:  occurredAt,
		Note:        sanitizeInput(req.Note),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	var filter store.Filter
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err := core.ParseMonthKey(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.From = month.Start()
		filter.To = month.Next().Start()
	}

	txs, err := s.transactions.List(r.Context(), owner, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	owner, ok := userID(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, &core.NotFoundError{Resource: "transaction", ID: id})
		return
	}

	if err := s.transactions.Delete(r.Context(), owner, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDate accepts YYYY-MM-DD or RFC 3339 timestamps, always in UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
