package services

import (
	"context"
	"fmt"
	"log/slog"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/storage"
)

// Recorder orchestrates expense recording: validation, the transactional
// insert-and-limit-check, and best-effort alert event publishing.
type Recorder struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewRecorder(storage *storage.Repository, amqpClient *amqp.Client) *Recorder {
	return &Recorder{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// RecordExpense persists the expense and, when it pushes the applicable
// limit's period sum past the ceiling, an alert row with it. The returned
// LimitResult tells the caller whether to warn the user and with which
// ceiling.
//
// The expense and alert commit atomically. The AMQP event published after
// commit is best-effort: the alert row is already durable, so a publish
// failure is logged and never fails the request.
func (s *Recorder) RecordExpense(ctx context.Context, e core.Expense) (int64, core.LimitResult, error) {
	if err := e.Validate(); err != nil {
		return 0, core.LimitResult{}, fmt.Errorf("validate expense: %w", err)
	}

	expenseID, result, err := s.storage.RecordExpense(ctx, e)
	if err != nil {
		return 0, core.LimitResult{}, fmt.Errorf("record expense: %w", err)
	}

	if result.Exceeded {
		s.publishAlertEvent(ctx, result.AlertID, expenseID, e.UserID)
	}

	return expenseID, result, nil
}

func (s *Recorder) publishAlertEvent(ctx context.Context, alertID, expenseID, userID int64) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not configured, skipping alert event",
			"alert_id", alertID)
		return
	}
	if err := s.amqpClient.PublishLimitAlert(ctx, alertID, expenseID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish alert event",
			"alert_id", alertID,
			"expense_id", expenseID,
			"error", err)
	}
}

// Close closes storage and the AMQP connection.
func (s *Recorder) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close recorder: %v", errs)
	}

	return nil
}
