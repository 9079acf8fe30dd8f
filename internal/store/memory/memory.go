// Package memory provides an in-memory store used as the default dev
// backend and as the fake in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Transaction
	budgets map[string]core.Money
}

func New() *Store {
	return &Store{budgets: make(map[string]core.Money)}
}

// Insert stores the transaction after write-path validation.
func (s *Store) Insert(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return nil
}

// Delete removes the transaction constrained to the requesting owner.
// A foreign or unknown id is a NotFoundError, not a no-op.
func (s *Store) Delete(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id && tx.Owner == owner {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return &core.NotFoundError{Resource: "transaction", ID: id}
}

func (s *Store) Query(_ context.Context, owner string, f store.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.items {
		if tx.Owner != owner {
			continue
		}
		if !f.From.IsZero() && tx.OccurredAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !tx.OccurredAt.Before(f.To) {
			continue
		}
		if f.Kind != "" && tx.Kind != f.Kind {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) MonthlyBudget(_ context.Context, owner string) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[owner]
	if !ok {
		return core.Money{}, &core.NotFoundError{Resource: "budget", ID: owner}
	}
	return b, nil
}

func (s *Store) SetMonthlyBudget(_ context.Context, owner string, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount.Cents <= 0 {
		delete(s.budgets, owner)
		return nil
	}
	s.budgets[owner] = amount
	return nil
}

// Close releases nothing; it exists so all backends share a cleanup shape.
func (s *Store) Close() error { return nil }
