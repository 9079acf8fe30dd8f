package analytics

import (
	"fmt"
	"math"

	"fintrack/internal/core"
)

// EvaluateBudget classifies one month's total expense against the user's
// monthly budget. A budget of zero means "no budget set". The threshold
// comparisons are done in integer cents so that the lower edges are exactly
// inclusive: spending precisely 90% of the budget is high, not warning.
func EvaluateBudget(totalExpense, budget core.Money) core.BudgetAlert {
	alert := core.BudgetAlert{
		TotalExpense: totalExpense,
		Budget:       budget,
	}

	if budget.Cents <= 0 {
		alert.Level = core.SeverityInfo
		alert.Title = "No budget set"
		alert.Message = "Set a monthly budget in settings to receive alerts"
		return alert
	}

	e, b := totalExpense.Cents, budget.Cents
	switch {
	case e >= b: // >= 100%
		alert.Level = core.SeverityCritical
		alert.Title = "Budget exceeded"
	case e*10 >= b*9: // >= 90%
		alert.Level = core.SeverityHigh
		alert.Title = "Near budget (>=90%)"
	case e*4 >= b*3: // >= 75%
		alert.Level = core.SeverityWarning
		alert.Title = "75% of budget used"
	default:
		alert.Level = core.SeverityOk
		alert.Title = "Within budget"
	}

	pct := math.Round(float64(e) / float64(b) * 100)
	alert.Message = fmt.Sprintf("You spent %d%% of your budget (%s/%s)",
		int64(pct), totalExpense.FormatUnits(), budget.FormatUnits())
	return alert
}
