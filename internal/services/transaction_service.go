package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// EventPublisher publishes transaction change notifications. The AMQP
// client satisfies it; a nil publisher disables events.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, evt *amqp.TransactionEvent) error
	Close() error
}

// TransactionService orchestrates transaction writes across the store
// and the event stream.
type TransactionService struct {
	backend   backend.Backend
	publisher EventPublisher
	now       func() time.Time
}

func NewTransactionService(b backend.Backend, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		backend:   b,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create validates and persists a new transaction, then publishes a
// created event. Event publish failures do not fail the request.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = s.now().UTC()
	}
	tx.OccurredAt = tx.OccurredAt.UTC()

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.backend.Insert(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionCreated, tx)
	return tx, nil
}

// Delete removes the owner's transaction and publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, owner, id string) error {
	if err := s.backend.Delete(ctx, owner, id); err != nil {
		return err
	}

	s.publishEvent(ctx, amqp.ActionDeleted, core.Transaction{ID: id, Owner: owner})
	return nil
}

// List returns the owner's transactions newest first, optionally
// restricted to a [from, to) window.
func (s *TransactionService) List(ctx context.Context, owner string, filter store.Filter) ([]core.Transaction, error) {
	txs, err := s.backend.Query(ctx, owner, filter)
	if err != nil {
		return nil, &core.UpstreamError{Op: "list transactions", Err: err}
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].OccurredAt.Equal(txs[j].OccurredAt) {
			return txs[i].OccurredAt.After(txs[j].OccurredAt)
		}
		return txs[i].ID > txs[j].ID
	})
	return txs, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, action string, tx core.Transaction) {
	if s.publisher == nil {
		return
	}

	evt := amqp.NewTransactionEvent(action, tx.ID, tx.Owner, string(tx.Kind), tx.OccurredAt)
	if err := s.publisher.PublishTransactionEvent(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "id", tx.ID, "error", err)
		// Don't fail the request - the transaction is saved locally
	}
}

// Close closes the event publisher. The backend is closed by its owner.
func (s *TransactionService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
