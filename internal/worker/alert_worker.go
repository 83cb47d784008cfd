package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/storage"
)

// AlertWorker consumes limit alert events and delivers them to an external
// webhook. It owns a read handle on the database to enrich events with
// expense and user context.
type AlertWorker struct {
	storage    *storage.Repository
	webhookURL string
	client     *http.Client
}

func NewAlertWorker(storage *storage.Repository, webhookURL string) *AlertWorker {
	return &AlertWorker{
		storage:    storage,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// webhookPayload is the JSON body posted to the alert webhook.
type webhookPayload struct {
	AlertID     int64     `json:"alert_id"`
	User        string    `json:"user"`
	Email       string    `json:"email"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	LimitAmount string    `json:"limit_amount"`
	ExpenseDate string    `json:"expense_date"`
	AlertedAt   time.Time `json:"alerted_at"`
}

// HandleAlertMessage loads the alert behind a consumed event and posts it
// to the webhook. Returning an error requeues the event.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.LimitAlertMessage) error {
	detail, err := w.storage.GetAlertDetail(ctx, msg.AlertID)
	if err != nil {
		return fmt.Errorf("load alert %d: %w", msg.AlertID, err)
	}

	if w.webhookURL == "" {
		slog.WarnContext(ctx, "No alert webhook configured, dropping event",
			"alert_id", msg.AlertID)
		return nil
	}

	payload := webhookPayload{
		AlertID:     detail.Alert.ID,
		User:        detail.UserName,
		Email:       detail.UserEmail,
		Category:    detail.Alert.Category,
		Amount:      detail.Alert.Amount.String(),
		LimitAmount: fmt.Sprintf("%d.%02d", detail.Alert.LimitCents/100, detail.Alert.LimitCents%100),
		ExpenseDate: detail.Date.Format("2006-01-02"),
		AlertedAt:   detail.Alert.Date,
	}

	if err := w.postWebhook(ctx, payload); err != nil {
		return fmt.Errorf("deliver alert %d: %w", msg.AlertID, err)
	}

	slog.InfoContext(ctx, "Delivered limit alert",
		"alert_id", detail.Alert.ID,
		"user_id", detail.Alert.UserID,
		"category", detail.Alert.Category)

	return nil
}

func (w *AlertWorker) postWebhook(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
