package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	tx := services.NewTransactionService(st, nil)
	ana := services.NewAnalyticsService(st, st)
	return NewServer(":0", tx, ana, 1000), st
}

func doJSON(t *testing.T, srv *Server, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestMissingUserIDRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	paths := []string{
		"/api/transactions",
		"/api/dashboard",
		"/api/dashboard/monthly-summary",
		"/api/dashboard/trends",
		"/api/dashboard/budget-alerts",
		"/api/ml/forecast",
		"/api/ml/savings",
	}
	for _, path := range paths {
		rr := doJSON(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s without X-User-ID status = %d, want 401", path, rr.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1",
		`{"type":"expense","amount":"12.34","category":"Food","date":"2025-03-05","note":"lunch"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID       string  `json:"id"`
		Type     string  `json:"type"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || resp.Type != "expense" || resp.Amount != 12.34 || resp.Category != "Food" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad kind", `{"type":"transfer","amount":"10","category":"Food"}`},
		{"zero amount", `{"type":"expense","amount":"0","category":"Food"}`},
		{"negative amount", `{"type":"expense","amount":"-5","category":"Food"}`},
		{"missing category", `{"type":"expense","amount":"10"}`},
		{"bad date", `{"type":"expense","amount":"10","category":"Food","date":"05/03/2025"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), "error") {
				t.Errorf("body %q missing error field", rr.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1",
		`{"type":"expense","amount":"10","category":"Food","date":"2025-03-05"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Another user cannot delete it.
	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "user-2", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "user-1", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "user-1", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestListTransactionsMonthFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{
		`{"type":"expense","amount":"10","category":"Food","date":"2025-03-05"}`,
		`{"type":"expense","amount":"20","category":"Food","date":"2025-04-05"}`,
	} {
		if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", body); rr.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/transactions?month=2025-03", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var txs []transactionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 10 {
		t.Errorf("filtered list = %+v, want the March transaction only", txs)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions?month=2025-3", "user-1", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed month status = %d, want 400", rr.Code)
	}
}

func TestMonthlySummaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	seed := []string{
		`{"type":"expense","amount":"20","category":"Food","date":"2025-03-05"}`,
		`{"type":"expense","amount":"15","category":"Food","date":"2025-03-06"}`,
		`{"type":"expense","amount":"5","category":"Transport","date":"2025-03-06"}`,
		`{"type":"income","amount":"1000","category":"Salary","date":"2025-03-01"}`,
	}
	for _, body := range seed {
		if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", body); rr.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/monthly-summary?month=2025-03", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rr.Code)
	}

	var resp monthlySummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Totals.TotalExpense != 40 || resp.Totals.TotalIncome != 1000 {
		t.Errorf("totals = %+v, want expense 40 income 1000", resp.Totals)
	}
	if len(resp.ByCategory.Labels) != 2 || resp.ByCategory.Labels[0] != "Food" {
		t.Errorf("byCategory = %+v, want Food first", resp.ByCategory)
	}
	if resp.ByCategory.Values[0] != 35 {
		t.Errorf("Food total = %v, want 35", resp.ByCategory.Values[0])
	}
}

func TestTrendsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/trends", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("trends status = %d", rr.Code)
	}
	var resp trendsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Labels) != 6 || len(resp.Incomes) != 6 || len(resp.Expenses) != 6 {
		t.Errorf("default trends lengths = %d/%d/%d, want 6 each",
			len(resp.Labels), len(resp.Incomes), len(resp.Expenses))
	}

	for _, q := range []string{"0", "-3", "abc"} {
		rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/trends?months="+q, "user-1", "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("months=%s status = %d, want 400", q, rr.Code)
		}
	}
}

func TestBudgetAlertsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	thisMonth := core.MonthKeyOf(time.Now().UTC()).String()

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/budget-alerts?month="+thisMonth, "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("alerts status = %d", rr.Code)
	}
	var resp budgetAlertResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Level != "info" || resp.Title != "No budget set" {
		t.Errorf("no-budget alert = %+v", resp)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/budget", "user-1", `{"budget":"1000"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set budget status = %d, body %s", rr.Code, rr.Body.String())
	}
	if _, err := st.MonthlyBudget(context.Background(), "user-1"); err != nil {
		t.Fatalf("budget not stored: %v", err)
	}

	body := `{"type":"expense","amount":"900","category":"Rent","date":"` +
		time.Now().UTC().Format("2006-01-02") + `"}`
	if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", body); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard/budget-alerts?month="+thisMonth, "user-1", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Level != "high" {
		t.Errorf("level = %s, want high", resp.Level)
	}
	if !strings.Contains(resp.Message, "90%") {
		t.Errorf("message = %q, want the 90%% figure", resp.Message)
	}
}

func TestForecastAndSavingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/ml/forecast", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("forecast status = %d", rr.Code)
	}
	var fc forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.Forecast != 0 || len(fc.History) != 6 {
		t.Errorf("empty forecast = %+v, want 0 with 6 history buckets", fc)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/ml/savings", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("savings status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "breakdown") {
		t.Errorf("empty savings body = %s, breakdown should be omitted", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "No expenses yet") {
		t.Errorf("savings body = %s, want the no-data tip", rr.Body.String())
	}
}

func TestDashboardComposite(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"type":"expense","amount":"50","category":"Food","date":"` +
		time.Now().UTC().Format("2006-01-02") + `"}`
	if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", body); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary.Totals.TotalExpense != 50 {
		t.Errorf("dashboard summary expense = %v, want 50", resp.Summary.Totals.TotalExpense)
	}
	if len(resp.Trends.Labels) != 6 {
		t.Errorf("dashboard trends has %d labels, want 6", len(resp.Trends.Labels))
	}
	if resp.Alert.Title != "No budget set" {
		t.Errorf("dashboard alert = %+v", resp.Alert)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPut, "/api/transactions", "user-1", `{}`)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /api/transactions status = %d, want 405", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodPost, "/api/dashboard/trends", "user-1", `{}`)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST trends status = %d, want 405", rr.Code)
	}
}

func TestRateLimitOnMutatingRequests(t *testing.T) {
	st := memory.New()
	tx := services.NewTransactionService(st, nil)
	ana := services.NewAnalyticsService(st, st)
	srv := NewServer(":0", tx, ana, 2)

	body := `{"type":"expense","amount":"1","category":"Food","date":"2025-03-05"}`
	var last int
	for i := 0; i < 3; i++ {
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "user-1", body)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}

	// Reads stay unthrottled.
	rr := doJSON(t, srv, http.MethodGet, "/api/ml/forecast", "user-1", "")
	if rr.Code != http.StatusOK {
		t.Errorf("read after limit status = %d, want 200", rr.Code)
	}
}
