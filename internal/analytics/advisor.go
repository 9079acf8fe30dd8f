package analytics

import (
	"fmt"
	"math"
	"sort"

	"fintrack/internal/core"
)

// AdvisorWindowDays is the rolling window the savings advisor looks back
// over.
const AdvisorWindowDays = 30

// NoSpendingTip is the fixed neutral tip returned when the window holds no
// expense transactions.
const NoSpendingTip = "No expenses yet. Good start!"

// CategorySpend is a per-category expense total annotated with the number
// of contributing transactions.
type CategorySpend struct {
	Category string
	Total    core.Money
	Count    int
}

// RankCategorySpend groups expense transactions by category and ranks them
// by total descending. Equal totals are broken by category name so the
// ranking is deterministic. Non-expense transactions are ignored.
func RankCategorySpend(txs []core.Transaction) []CategorySpend {
	totals := make(map[string]*CategorySpend)
	var order []string
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		cs, ok := totals[tx.Category]
		if !ok {
			cs = &CategorySpend{Category: tx.Category}
			totals[tx.Category] = cs
			order = append(order, tx.Category)
		}
		cs.Total.Cents += tx.Amount.Cents
		cs.Count++
	}

	ranked := make([]CategorySpend, 0, len(order))
	for _, cat := range order {
		ranked = append(ranked, *totals[cat])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total.Cents != ranked[j].Total.Cents {
			return ranked[i].Total.Cents > ranked[j].Total.Cents
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// Advise emits one heuristic savings recommendation from ranked category
// spend. A category is wasteful when its total exceeds 1.5x the per-category
// average; the highest-total wasteful category gets a 15% reduction target,
// otherwise the largest category gets a milder 10% suggestion. The
// breakdown is always the top five categories with their share of the
// total, one decimal place.
func Advise(ranked []CategorySpend) core.SavingsTip {
	if len(ranked) == 0 {
		return core.SavingsTip{Tip: NoSpendingTip}
	}

	var total int64
	for _, cs := range ranked {
		total += cs.Total.Cents
	}

	tip := core.SavingsTip{
		TotalExpense: core.Money{Cents: total},
		HasData:      true,
	}

	top := ranked[0]
	topShare := roundTenth(float64(top.Total.Cents) / float64(total) * 100)

	// The highest-total wasteful category is necessarily the top one.
	avg := float64(total) / float64(len(ranked))
	if float64(top.Total.Cents) > avg*1.5 {
		savings := int64(math.Round(top.Total.Units() * 0.15))
		tip.Tip = fmt.Sprintf("You spent %s on %s (%.1f%% of total). Try reducing by 15%% to save %d!",
			top.Total.FormatUnits(), top.Category, topShare, savings)
	} else {
		savings := int64(math.Round(top.Total.Units() * 0.10))
		tip.Tip = fmt.Sprintf("Your spending is well-distributed! Consider reducing %s by 10%% to save %d.",
			top.Category, savings)
	}

	limit := len(ranked)
	if limit > 5 {
		limit = 5
	}
	for _, cs := range ranked[:limit] {
		tip.Breakdown = append(tip.Breakdown, core.CategoryShare{
			Category:   cs.Category,
			Amount:     cs.Total,
			Percentage: roundTenth(float64(cs.Total.Cents) / float64(total) * 100),
		})
	}
	return tip
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
