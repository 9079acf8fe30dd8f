package analytics

import (
	"time"

	"fintrack/internal/core"
)

// MonthlySummary is the aggregation feeding the monthly-summary view:
// per-category expense totals for one month plus overall totals by kind.
// Categories appear in first-seen transaction order, and only categories
// with an expense total > 0 are reported.
type MonthlySummary struct {
	Month        core.MonthKey
	Categories   []core.CategoryTotal
	TotalIncome  core.Money
	TotalExpense core.Money
}

// SummarizeMonth groups the month's transactions by category and reduces by
// summation. Accumulation is plain addition over cents; there is no
// rounding before the presentation boundary. Transactions outside the month
// are ignored, so callers may pass a superset.
func SummarizeMonth(txs []core.Transaction, month core.MonthKey) MonthlySummary {
	s := MonthlySummary{Month: month}

	byCategory := make(map[string]int64)
	var order []string
	for _, tx := range txs {
		if !month.Contains(tx.OccurredAt) {
			continue
		}
		switch tx.Kind {
		case core.Income:
			s.TotalIncome.Cents += tx.Amount.Cents
		case core.Expense:
			s.TotalExpense.Cents += tx.Amount.Cents
			if _, seen := byCategory[tx.Category]; !seen {
				order = append(order, tx.Category)
			}
			byCategory[tx.Category] += tx.Amount.Cents
		}
	}

	for _, cat := range order {
		total := byCategory[cat]
		if total <= 0 {
			continue
		}
		s.Categories = append(s.Categories, core.CategoryTotal{
			Category: cat,
			Kind:     core.Expense,
			Total:    core.Money{Cents: total},
		})
	}
	return s
}

// BuildTrend produces per-month income/expense totals for the trailing
// months window ending at the month of now, oldest first. The series always
// has exactly months entries; months with no transactions carry zero
// totals.
func BuildTrend(txs []core.Transaction, now time.Time, months int) core.TrendSeries {
	keys := LastNMonths(now, months)
	index := make(map[core.MonthKey]int, len(keys))
	series := make(core.TrendSeries, len(keys))
	for i, k := range keys {
		series[i] = core.MonthTotals{Month: k}
		index[k] = i
	}

	for _, tx := range txs {
		i, ok := index[core.MonthKeyOf(tx.OccurredAt)]
		if !ok {
			continue
		}
		switch tx.Kind {
		case core.Income:
			series[i].Income.Cents += tx.Amount.Cents
		case core.Expense:
			series[i].Expense.Cents += tx.Amount.Cents
		}
	}
	return series
}

// MonthlyExpenseTotals is the forecaster's input series: the expense total
// for each of the trailing months, oldest first, zero-filled.
func MonthlyExpenseTotals(txs []core.Transaction, now time.Time, months int) []core.Money {
	series := BuildTrend(txs, now, months)
	totals := make([]core.Money, len(series))
	for i, mt := range series {
		totals[i] = mt.Expense
	}
	return totals
}
