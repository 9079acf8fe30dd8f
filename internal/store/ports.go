package store

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Filter narrows a transaction query. From/To form a half-open interval
// [From, To); zero values leave that side unbounded. An empty Kind matches
// both kinds.
type Filter struct {
	From time.Time
	To   time.Time
	Kind core.Kind
}

// Ports for the pluggable storage backends. Every implementation must
// return query results in ascending (occurred_at, id) order so that
// aggregation output is stable, and must reject deletes that name another
// owner's transaction with a core.NotFoundError.
type (
	TransactionWriter interface {
		Insert(ctx context.Context, tx core.Transaction) error
		// Delete removes the transaction only when it belongs to owner.
		Delete(ctx context.Context, owner, id string) error
	}

	TransactionReader interface {
		Query(ctx context.Context, owner string, f Filter) ([]core.Transaction, error)
	}

	// BudgetStore holds the per-user monthly budget. A user without a
	// budget record yields core.NotFoundError from MonthlyBudget; setting
	// a zero amount clears the budget.
	BudgetStore interface {
		MonthlyBudget(ctx context.Context, owner string) (core.Money, error)
		SetMonthlyBudget(ctx context.Context, owner string, amount core.Money) error
	}
)
