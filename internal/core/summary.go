package core

// CategoryTotal is an amount aggregated by category name over a window.
// Derived, never stored.
type CategoryTotal struct {
	Category string
	Kind     Kind
	Total    Money
}

// MonthTotals holds the income and expense sums for one calendar month.
type MonthTotals struct {
	Month   MonthKey
	Income  Money
	Expense Money
}

// TrendSeries is an ordered sequence of month totals covering exactly N
// consecutive months ending at the current month, oldest first. Months with
// no transactions appear with zero totals.
type TrendSeries []MonthTotals

// Severity is the ordered budget-alert classification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityOk       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// BudgetAlert compares one month's total expense against the user's
// configured monthly budget.
type BudgetAlert struct {
	TotalExpense Money
	Budget       Money
	Level        Severity
	Title        string
	Message      string
}

// Forecast is the one-step spend prediction over a trailing window of
// monthly expense totals. Predicted is clamped at zero and rounded to the
// nearest whole currency unit; History stays unrounded, oldest first.
type Forecast struct {
	Predicted int64
	History   []Money
}

// CategoryShare is one row of the savings advisor's ranked breakdown.
// Percentage is the category's share of total expense, rounded to one
// decimal place.
type CategoryShare struct {
	Category   string
	Amount     Money
	Percentage float64
}

// SavingsTip is the advisor's output: one heuristic recommendation plus the
// top-5 category breakdown. HasData is false when the window held no
// expense transactions, in which case Breakdown and TotalExpense are unset.
type SavingsTip struct {
	Tip          string
	Breakdown    []CategoryShare
	TotalExpense Money
	HasData      bool
}
