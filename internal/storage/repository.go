// Package storage implements the SQLite transaction and budget store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert implements store.TransactionWriter.
func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner, kind, amount_cents, category, subcategory, occurred_at, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Owner, string(tx.Kind), tx.Amount.Cents, tx.Category, tx.Subcategory,
		tx.OccurredAt.UTC().Unix(), tx.Note, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"owner", tx.Owner,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return nil
}

// Delete implements store.TransactionWriter. The owner constraint is part
// of the statement: deleting another owner's transaction is rejected, not a
// no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return &core.NotFoundError{Resource: "transaction", ID: id}
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "owner", owner)
	return nil
}

// Query implements store.TransactionReader. Results are ordered by
// (occurred_at, id) so aggregation output is stable.
func (r *SQLiteRepository) Query(ctx context.Context, owner string, f store.Filter) ([]core.Transaction, error) {
	q := `SELECT id, owner, kind, amount_cents, category, subcategory, occurred_at, note
		FROM transactions WHERE owner = ?`
	args := []any{owner}

	if !f.From.IsZero() {
		q += ` AND occurred_at >= ?`
		args = append(args, f.From.UTC().Unix())
	}
	if !f.To.IsZero() {
		q += ` AND occurred_at < ?`
		args = append(args, f.To.UTC().Unix())
	}
	if f.Kind != "" {
		q += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	q += ` ORDER BY occurred_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var kind string
		var occurred int64
		if err := rows.Scan(&tx.ID, &tx.Owner, &kind, &tx.Amount.Cents, &tx.Category,
			&tx.Subcategory, &occurred, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.Kind(kind)
		tx.OccurredAt = time.Unix(occurred, 0).UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// MonthlyBudget implements store.BudgetStore.
func (r *SQLiteRepository) MonthlyBudget(ctx context.Context, owner string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_budget_cents FROM user_budgets WHERE owner = ?`, owner).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, &core.NotFoundError{Resource: "budget", ID: owner}
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get monthly budget: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetMonthlyBudget implements store.BudgetStore. A zero amount clears the
// budget record.
func (r *SQLiteRepository) SetMonthlyBudget(ctx context.Context, owner string, amount core.Money) error {
	if amount.Cents <= 0 {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM user_budgets WHERE owner = ?`, owner); err != nil {
			return fmt.Errorf("clear monthly budget: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_budgets (owner, monthly_budget_cents, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner) DO UPDATE SET
			monthly_budget_cents = excluded.monthly_budget_cents,
			updated_at = excluded.updated_at`,
		owner, amount.Cents, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}
