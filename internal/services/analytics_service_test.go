package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func seedTx(t *testing.T, st *memory.Store, owner string, kind core.Kind, cents int64, category string, at time.Time) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:         owner + "-" + category + "-" + at.Format(time.RFC3339),
		Owner:      owner,
		Kind:       kind,
		Amount:     core.Money{Cents: cents},
		Category:   category,
		OccurredAt: at,
	}
	if err := st.Insert(context.Background(), tx); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return tx
}

func TestAnalyticsService_GetMonthlySummary(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTx(t, st, "user-1", core.Expense, 2000, "Food", march)
	seedTx(t, st, "user-1", core.Expense, 1500, "Food", march.Add(24*time.Hour))
	seedTx(t, st, "user-1", core.Expense, 500, "Transport", march)
	seedTx(t, st, "user-1", core.Income, 100000, "Salary", march)
	// Outside the month and outside the owner; both must be ignored.
	seedTx(t, st, "user-1", core.Expense, 9999, "Food", march.AddDate(0, 1, 0))
	seedTx(t, st, "user-2", core.Expense, 9999, "Food", march)

	sum, err := svc.GetMonthlySummary(context.Background(), "user-1", core.MonthKey{Year: 2025, Month: time.March})
	if err != nil {
		t.Fatalf("GetMonthlySummary() error = %v", err)
	}

	if sum.TotalExpense.Cents != 4000 {
		t.Errorf("TotalExpense = %d, want 4000", sum.TotalExpense.Cents)
	}
	if sum.TotalIncome.Cents != 100000 {
		t.Errorf("TotalIncome = %d, want 100000", sum.TotalIncome.Cents)
	}

	var sumOfCategories int64
	for _, c := range sum.Categories {
		sumOfCategories += c.Total.Cents
	}
	if sumOfCategories != sum.TotalExpense.Cents {
		t.Errorf("category totals sum to %d, want %d", sumOfCategories, sum.TotalExpense.Cents)
	}
}

func TestAnalyticsService_GetTrendsValidation(t *testing.T) {
	svc := NewAnalyticsService(memory.New(), memory.New())

	var ve *core.ValidationError
	if _, err := svc.GetTrends(context.Background(), "user-1", 0); !errors.As(err, &ve) {
		t.Errorf("GetTrends(0) error = %v, want ValidationError", err)
	}
	if _, err := svc.GetTrends(context.Background(), "user-1", MaxTrendMonths+1); !errors.As(err, &ve) {
		t.Errorf("GetTrends(%d) error = %v, want ValidationError", MaxTrendMonths+1, err)
	}
}

func TestAnalyticsService_GetTrendsZeroFilled(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)
	svc.now = fixedClock(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	seedTx(t, st, "user-1", core.Expense, 1000, "Food", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC))

	trend, err := svc.GetTrends(context.Background(), "user-1", 6)
	if err != nil {
		t.Fatalf("GetTrends() error = %v", err)
	}
	if len(trend) != 6 {
		t.Fatalf("GetTrends() returned %d buckets, want 6", len(trend))
	}
	if trend[0].Month.String() != "2024-10" || trend[5].Month.String() != "2025-03" {
		t.Errorf("trend spans %s..%s, want 2024-10..2025-03", trend[0].Month, trend[5].Month)
	}
	for _, m := range trend {
		want := int64(0)
		if m.Month.String() == "2025-02" {
			want = 1000
		}
		if m.Expense.Cents != want {
			t.Errorf("month %s expense = %d, want %d", m.Month, m.Expense.Cents, want)
		}
	}
}

func TestAnalyticsService_GetBudgetAlert(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)
	month := core.MonthKey{Year: 2025, Month: time.March}

	alert, err := svc.GetBudgetAlert(context.Background(), "user-1", month)
	if err != nil {
		t.Fatalf("GetBudgetAlert() error = %v", err)
	}
	if alert.Level != core.SeverityInfo || alert.Title != "No budget set" {
		t.Errorf("alert without budget = %+v, want info/No budget set", alert)
	}

	if err := st.SetMonthlyBudget(context.Background(), "user-1", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("SetMonthlyBudget() error = %v", err)
	}
	seedTx(t, st, "user-1", core.Expense, 95000, "Rent", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	// Income never counts against the budget.
	seedTx(t, st, "user-1", core.Income, 500000, "Salary", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))

	alert, err = svc.GetBudgetAlert(context.Background(), "user-1", month)
	if err != nil {
		t.Fatalf("GetBudgetAlert() error = %v", err)
	}
	if alert.Level != core.SeverityHigh {
		t.Errorf("alert level = %s, want %s", alert.Level, core.SeverityHigh)
	}
	if alert.TotalExpense.Cents != 95000 {
		t.Errorf("TotalExpense = %d, want 95000", alert.TotalExpense.Cents)
	}
}

func TestAnalyticsService_GetForecast(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)
	svc.now = fixedClock(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	// Linear ramp 100, 120, ..., 200 units over January through June.
	for i := 0; i < 6; i++ {
		at := time.Date(2025, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC)
		seedTx(t, st, "user-1", core.Expense, int64((100+20*i)*100), "Rent", at)
	}

	fc, err := svc.GetForecast(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if fc.Predicted != 220 {
		t.Errorf("Predicted = %d, want 220", fc.Predicted)
	}
	if len(fc.History) != 6 {
		t.Errorf("History has %d entries, want 6", len(fc.History))
	}
}

func TestAnalyticsService_GetSavingsTip(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	tip, err := svc.GetSavingsTip(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetSavingsTip() error = %v", err)
	}
	if tip.HasData {
		t.Error("expected HasData=false with no expenses")
	}

	seedTx(t, st, "user-1", core.Expense, 120000, "Food", now.Add(-48*time.Hour))
	seedTx(t, st, "user-1", core.Expense, 20000, "Transport", now.Add(-24*time.Hour))
	seedTx(t, st, "user-1", core.Expense, 10000, "Fun", now.Add(-24*time.Hour))
	// Outside the thirty day window.
	seedTx(t, st, "user-1", core.Expense, 999900, "Travel", now.Add(-31*24*time.Hour))

	tip, err = svc.GetSavingsTip(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetSavingsTip() error = %v", err)
	}
	if !tip.HasData {
		t.Fatal("expected HasData=true")
	}
	if tip.TotalExpense.Cents != 150000 {
		t.Errorf("TotalExpense = %d, want 150000", tip.TotalExpense.Cents)
	}
	if len(tip.Breakdown) == 0 || tip.Breakdown[0].Category != "Food" {
		t.Errorf("top category = %+v, want Food first", tip.Breakdown)
	}
}

func TestAnalyticsService_DashboardSeesDeletes(t *testing.T) {
	st := memory.New()
	ana := NewAnalyticsService(st, st)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	ana.now = fixedClock(now)

	txSvc := NewTransactionService(st, nil)
	tx, err := txSvc.Create(context.Background(), core.Transaction{
		Owner:      "user-1",
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 5000},
		Category:   "Food",
		OccurredAt: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dash, err := ana.GetDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if dash.Summary.TotalExpense.Cents != 5000 {
		t.Errorf("TotalExpense = %d, want 5000", dash.Summary.TotalExpense.Cents)
	}

	if err := txSvc.Delete(context.Background(), "user-1", tx.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	dash, err = ana.GetDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if dash.Summary.TotalExpense.Cents != 0 {
		t.Errorf("TotalExpense after delete = %d, want 0", dash.Summary.TotalExpense.Cents)
	}
	if dash.SavingsTip.HasData {
		t.Error("SavingsTip.HasData should be false after delete")
	}
}

func TestAnalyticsService_RepeatedCallsAreStable(t *testing.T) {
	st := memory.New()
	svc := NewAnalyticsService(st, st)
	svc.now = fixedClock(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	seedTx(t, st, "user-1", core.Expense, 3000, "Food", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	seedTx(t, st, "user-1", core.Expense, 1000, "Transport", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))

	first, err := svc.GetDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	second, err := svc.GetDashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}

	if first.Summary.TotalExpense != second.Summary.TotalExpense ||
		first.BudgetAlert != second.BudgetAlert ||
		first.Forecast.Predicted != second.Forecast.Predicted ||
		first.SavingsTip.Tip != second.SavingsTip.Tip {
		t.Error("same inputs must produce identical dashboards")
	}
}
