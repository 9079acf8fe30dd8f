package analytics

import (
	"testing"

	"fintrack/internal/core"
)

func TestEvaluateBudgetLevels(t *testing.T) {
	budget := core.Money{Cents: 100000} // 1000

	cases := []struct {
		expenseCents int64
		want         core.Severity
		title        string
	}{
		{0, core.SeverityOk, "Within budget"},
		{74900, core.SeverityOk, "Within budget"},
		{75000, core.SeverityWarning, "75% of budget used"}, // boundary inclusive
		{89900, core.SeverityWarning, "75% of budget used"},
		{90000, core.SeverityHigh, "Near budget (>=90%)"}, // exactly 90%
		{99900, core.SeverityHigh, "Near budget (>=90%)"},
		{100000, core.SeverityCritical, "Budget exceeded"}, // exactly 100%
		{150000, core.SeverityCritical, "Budget exceeded"},
	}
	for _, tc := range cases {
		got := EvaluateBudget(core.Money{Cents: tc.expenseCents}, budget)
		if got.Level != tc.want {
			t.Fatalf("expense=%d: level %q, want %q", tc.expenseCents, got.Level, tc.want)
		}
		if got.Title != tc.title {
			t.Fatalf("expense=%d: title %q, want %q", tc.expenseCents, got.Title, tc.title)
		}
	}
}

func TestEvaluateBudgetMessage(t *testing.T) {
	got := EvaluateBudget(core.Money{Cents: 90000}, core.Money{Cents: 100000})
	if got.Message != "You spent 90% of your budget (900/1000)" {
		t.Fatalf("message = %q", got.Message)
	}

	// Percentage rounds to the nearest integer.
	got = EvaluateBudget(core.Money{Cents: 89900}, core.Money{Cents: 100000})
	if got.Message != "You spent 90% of your budget (899/1000)" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestEvaluateBudgetUnset(t *testing.T) {
	got := EvaluateBudget(core.Money{Cents: 50000}, core.Money{})
	if got.Level != core.SeverityInfo {
		t.Fatalf("level = %q", got.Level)
	}
	if got.Title != "No budget set" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.TotalExpense.Cents != 50000 {
		t.Fatalf("total expense must be carried: %d", got.TotalExpense.Cents)
	}
}
