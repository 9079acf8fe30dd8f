package http

import (
	"net/http"

	"fintrack/internal/core"
)

type forecastResponse struct {
	Forecast int64     `json:"forecast"`
	History  []float64 `json:"history"`
}

func toForecastResponse(fc core.Forecast) forecastResponse {
	resp := forecastResponse{
		Forecast: fc.Predicted,
		History:  make([]float64, 0, len(fc.History)),
	}
	for _, m := range fc.History {
		resp.History = append(resp.History, m.Units())
	}
	return resp
}

type savingsBreakdownItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type savingsResponse struct {
	Tip          string                 `json:"tip"`
	Breakdown    []savingsBreakdownItem `json:"breakdown,omitempty"`
	TotalExpense *float64               `json:"totalExpense,omitempty"`
}

func toSavingsResponse(tip core.SavingsTip) savingsResponse {
	resp := savingsResponse{Tip: tip.Tip}
	if !tip.HasData {
		return resp
	}

	total := tip.TotalExpense.Units()
	resp.TotalExpense = &total
	resp.Breakdown = make([]savingsBreakdownItem, 0, len(tip.Breakdown))
	for _, b := range tip.Breakdown {
		resp.Breakdown = append(resp.Breakdown, savingsBreakdownItem{
			Category:   b.Category,
			Amount:     b.Amount.Units(),
			Percentage: b.Percentage,
		})
	}
	return resp
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	fc, err := s.analytics.GetForecast(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toForecastResponse(fc))
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	tip, err := s.analytics.GetSavingsTip(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSavingsResponse(tip))
}
