package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type byCategoryResponse struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type summaryTotalsResponse struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
}

type monthlySummaryResponse struct {
	Month      string                `json:"month"`
	ByCategory byCategoryResponse    `json:"byCategory"`
	Totals     summaryTotalsResponse `json:"totals"`
}

func toMonthlySummaryResponse(sum analytics.MonthlySummary) monthlySummaryResponse {
	resp := monthlySummaryResponse{
		Month: sum.Month.String(),
		ByCategory: byCategoryResponse{
			Labels: make([]string, 0, len(sum.Categories)),
			Values: make([]float64, 0, len(sum.Categories)),
		},
		Totals: summaryTotalsResponse{
			TotalIncome:  sum.TotalIncome.Units(),
			TotalExpense: sum.TotalExpense.Units(),
		},
	}
	for _, c := range sum.Categories {
		resp.ByCategory.Labels = append(resp.ByCategory.Labels, c.Category)
		resp.ByCategory.Values = append(resp.ByCategory.Values, c.Total.Units())
	}
	return resp
}

type trendsResponse struct {
	Labels   []string  `json:"labels"`
	Incomes  []float64 `json:"incomes"`
	Expenses []float64 `json:"expenses"`
}

func toTrendsResponse(trend core.TrendSeries) trendsResponse {
	resp := trendsResponse{
		Labels:   make([]string, 0, len(trend)),
		Incomes:  make([]float64, 0, len(trend)),
		Expenses: make([]float64, 0, len(trend)),
	}
	for _, m := range trend {
		resp.Labels = append(resp.Labels, m.Month.String())
		resp.Incomes = append(resp.Incomes, m.Income.Units())
		resp.Expenses = append(resp.Expenses, m.Expense.Units())
	}
	return resp
}

type budgetAlertResponse struct {
	TotalExpense float64 `json:"totalExpense"`
	Budget       float64 `json:"budget"`
	Level        string  `json:"level"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
}

func toBudgetAlertResponse(alert core.BudgetAlert) budgetAlertResponse {
	return budgetAlertResponse{
		TotalExpense: alert.TotalExpense.Units(),
		Budget:       alert.Budget.Units(),
		Level:        string(alert.Level),
		Title:        alert.Title,
		Message:      alert.Message,
	}
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	month, err := parseMonth(r, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	sum, err := s.analytics.GetMonthlySummary(r.Context(), owner, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlySummaryResponse(sum))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	months := services.DefaultTrendMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, core.NewValidationError("invalid months %q: must be a number", v))
			return
		}
		months = n
	}

	trend, err := s.analytics.GetTrends(r.Context(), owner, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrendsResponse(trend))
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	month, err := parseMonth(r, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	alert, err := s.analytics.GetBudgetAlert(r.Context(), owner, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetAlertResponse(alert))
}

type dashboardResponse struct {
	Summary    monthlySummaryResponse `json:"summary"`
	Trends     trendsResponse         `json:"trends"`
	Alert      budgetAlertResponse    `json:"alert"`
	Forecast   forecastResponse       `json:"forecast"`
	SavingsTip savingsResponse        `json:"savingsTip"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	dash, err := s.analytics.GetDashboard(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:    toMonthlySummaryResponse(dash.Summary),
		Trends:     toTrendsResponse(dash.Trends),
		Alert:      toBudgetAlertResponse(dash.BudgetAlert),
		Forecast:   toForecastResponse(dash.Forecast),
		SavingsTip: toSavingsResponse(dash.SavingsTip),
	})
}

type setBudgetRequest struct {
	Budget json.Number `json:"budget"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, core.NewValidationError("invalid request body: %v", err))
		return
	}

	// Zero clears the budget; ParseDecimalToCents rejects it, so handle
	// the clear case up front.
	var cents int64
	raw := strings.TrimSpace(req.Budget.String())
	if raw != "" && raw != "0" && raw != "0.0" && raw != "0.00" {
		var err error
		cents, err = core.ParseDecimalToCents(raw)
		if err != nil {
			writeError(w, r, core.NewValidationError("invalid budget %q: %v", raw, err))
			return
		}
	}

	if err := s.analytics.SetBudget(r.Context(), owner, core.Money{Cents: cents}); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"budget": core.Money{Cents: cents}.Units()})
}
