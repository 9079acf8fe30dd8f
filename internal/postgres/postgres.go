// Package postgres implements the transaction and budget store on
// PostgreSQL via pgx. It is the backend of choice for multi-instance
// deployments; schema setup lives in migrations applied at connect time.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('income', 'expense')),
	amount_cents BIGINT NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_owner_occurred ON transactions (owner, occurred_at);
CREATE TABLE IF NOT EXISTS user_budgets (
	owner TEXT PRIMARY KEY,
	monthly_budget_cents BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// Insert implements store.TransactionWriter.
func (r *Repository) Insert(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, owner, kind, amount_cents, category, subcategory, occurred_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.Owner, string(tx.Kind), tx.Amount.Cents, tx.Category, tx.Subcategory,
		tx.OccurredAt.UTC(), tx.Note)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", tx.ID, "owner", tx.Owner, "kind", tx.Kind, "amount_cents", tx.Amount.Cents)
	return nil
}

// Delete implements store.TransactionWriter, constrained to the owner.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Resource: "transaction", ID: id}
	}
	return nil
}

// Query implements store.TransactionReader with stable (occurred_at, id)
// ordering.
func (r *Repository) Query(ctx context.Context, owner string, f store.Filter) ([]core.Transaction, error) {
	q := `SELECT id, owner, kind, amount_cents, category, subcategory, occurred_at, note
		FROM transactions WHERE owner = $1`
	args := []any{owner}

	if !f.From.IsZero() {
		args = append(args, f.From.UTC())
		q += fmt.Sprintf(` AND occurred_at >= $%d`, len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To.UTC())
		q += fmt.Sprintf(` AND occurred_at < $%d`, len(args))
	}
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		q += fmt.Sprintf(` AND kind = $%d`, len(args))
	}
	q += ` ORDER BY occurred_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var kind string
		var occurred time.Time
		if err := rows.Scan(&tx.ID, &tx.Owner, &kind, &tx.Amount.Cents, &tx.Category,
			&tx.Subcategory, &occurred, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.Kind(kind)
		tx.OccurredAt = occurred.UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// MonthlyBudget implements store.BudgetStore.
func (r *Repository) MonthlyBudget(ctx context.Context, owner string) (core.Money, error) {
	var cents int64
	err := r.pool.QueryRow(ctx,
		`SELECT monthly_budget_cents FROM user_budgets WHERE owner = $1`, owner).Scan(&cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Money{}, &core.NotFoundError{Resource: "budget", ID: owner}
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get monthly budget: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetMonthlyBudget implements store.BudgetStore.
func (r *Repository) SetMonthlyBudget(ctx context.Context, owner string, amount core.Money) error {
	if amount.Cents <= 0 {
		if _, err := r.pool.Exec(ctx,
			`DELETE FROM user_budgets WHERE owner = $1`, owner); err != nil {
			return fmt.Errorf("clear monthly budget: %w", err)
		}
		return nil
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_budgets (owner, monthly_budget_cents, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (owner) DO UPDATE SET
			monthly_budget_cents = EXCLUDED.monthly_budget_cents,
			updated_at = now()`,
		owner, amount.Cents)
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}
