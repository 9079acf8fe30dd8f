package amqp

import (
	"encoding/json"
	"time"
)

// Event actions published on the transaction stream.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is a lightweight notification that a transaction changed.
// It carries only identifiers; consumers fetch whatever detail they need
// from the store.
type TransactionEvent struct {
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time.
func NewTransactionEvent(action, id, owner, kind string, occurredAt time.Time) *TransactionEvent {
	return &TransactionEvent{
		Action:     action,
		ID:         id,
		Owner:      owner,
		Kind:       kind,
		OccurredAt: occurredAt,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var evt TransactionEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
