package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind discriminates between money coming in and money going out.
	Kind string

	// Money is an amount in integer cents.
	Money struct {
		Cents int64
	}

	// Transaction is a single dated income or expense entry. It is owned by
	// exactly one user and immutable once created (deletion aside).
	Transaction struct {
		ID          string
		Owner       string
		Kind        Kind
		Amount      Money
		Category    string
		Subcategory string // optional, never aggregated on
		OccurredAt  time.Time
		Note        string
	}
)

var (
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyOwner      = errors.New("empty owner")
	ErrEmptyCategory   = errors.New("empty category")
	ErrZeroOccurredAt  = errors.New("occurred_at cannot be zero")
	ErrNoteTooLong     = errors.New("note too long (max 500 characters)")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount in whole currency units for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Validate checks the write-path invariants. Aggregation never re-validates
// amounts arriving from storage; this is the single place where the
// amount > 0 invariant is enforced.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 100 {
		return ErrCategoryTooLong
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroOccurredAt
	}
	if len(t.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}
