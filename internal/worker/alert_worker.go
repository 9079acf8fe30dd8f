// Package worker contains the background consumer that reacts to
// transaction events by re-evaluating the owner's budget standing.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

// AlertWorker recomputes the current-month budget alert for the owner of
// every transaction event and logs the outcome. It is the notification
// half of the alert pipeline; delivery channels hang off the log stream.
type AlertWorker struct {
	analytics *services.AnalyticsService
	timeout   time.Duration
	now       func() time.Time
}

func NewAlertWorker(analytics *services.AnalyticsService, timeout time.Duration) *AlertWorker {
	return &AlertWorker{
		analytics: analytics,
		timeout:   timeout,
		now:       time.Now,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *AlertWorker) HandleEvent(ctx context.Context, evt *amqp.TransactionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	slog.InfoContext(ctx, "Processing transaction event",
		"action", evt.Action,
		"id", evt.ID,
		"owner", evt.Owner)

	// Deleted income and created income can shift nothing budget-wise,
	// but the recompute is cheap and keeps the handler uniform.
	month := core.MonthKeyOf(w.now())
	alert, err := w.analytics.GetBudgetAlert(ctx, evt.Owner, month)
	if err != nil {
		return fmt.Errorf("evaluate budget alert: %w", err)
	}

	switch alert.Level {
	case core.SeverityHigh, core.SeverityCritical:
		slog.WarnContext(ctx, "Budget alert raised",
			"owner", evt.Owner,
			"month", month.String(),
			"level", alert.Level,
			"title", alert.Title,
			"message", alert.Message)
	default:
		slog.InfoContext(ctx, "Budget standing evaluated",
			"owner", evt.Owner,
			"month", month.String(),
			"level", alert.Level)
	}

	return nil
}

// Run consumes transaction events until the context is cancelled.
func (w *AlertWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeTransactionEvents(ctx, func(evt *amqp.TransactionEvent) error {
		return w.HandleEvent(ctx, evt)
	})
}
