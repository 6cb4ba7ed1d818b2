package worker

import (
	"context"
	"fmt"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// NotificationStore is the persistence surface the worker needs: one-shot
// notification latches plus the processed-event ledger for consumer-side
// idempotency.
type NotificationStore interface {
	MarkReceiptNotified(ctx context.Context, receiptID int64) (bool, error)
	MarkPaymentNotified(ctx context.Context, userID int64) (bool, error)
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// NotificationWorker consumes domain events and sends each notification at
// most once. Delivery here is structured logging; the latch columns are what
// guarantee once-only behavior across redeliveries and restarts.
type NotificationWorker struct {
	store    NotificationStore
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewNotificationWorker creates a notification worker
func NewNotificationWorker(store NotificationStore, consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{
		store:    store,
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Run consumes events until the context is cancelled
func (w *NotificationWorker) Run(ctx context.Context) error {
	handler := broker.NewEventHandler()
	handler.OnReceiptCreated(w.handleReceiptCreated)
	handler.OnPaymentConfirmed(w.handlePaymentConfirmed)

	w.logger.Info("Notification worker starting")
	return w.consumer.StartConsuming(ctx, handler.HandleMessage)
}

func (w *NotificationWorker) handleReceiptCreated(ctx context.Context, event *models.ReceiptCreatedEvent) error {
	done, err := w.alreadyProcessed(ctx, event.EventID)
	if err != nil || done {
		return err
	}

	won, err := w.store.MarkReceiptNotified(ctx, event.ReceiptID)
	if err != nil {
		return fmt.Errorf("failed to latch receipt notification: %w", err)
	}
	if won {
		w.logger.Info("Receipt notification sent",
			zap.Int64("receipt_id", event.ReceiptID),
			zap.String("receipt_number", event.ReceiptNumber),
			zap.Int64("user_id", event.UserID),
			zap.Int64("total_amount", event.TotalAmount))
		util.NotificationsSentTotal.WithLabelValues("receipt").Inc()
	} else {
		w.logger.Debug("Receipt already notified, skipping",
			zap.Int64("receipt_id", event.ReceiptID))
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *NotificationWorker) handlePaymentConfirmed(ctx context.Context, event *models.PaymentConfirmedEvent) error {
	done, err := w.alreadyProcessed(ctx, event.EventID)
	if err != nil || done {
		return err
	}

	won, err := w.store.MarkPaymentNotified(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to latch payment notification: %w", err)
	}
	if won {
		w.logger.Info("Payment notification sent",
			zap.Int64("user_id", event.UserID),
			zap.String("username", event.Username),
			zap.Time("paid_at", event.PaidAt))
		util.NotificationsSentTotal.WithLabelValues("payment").Inc()
	} else {
		w.logger.Debug("Payment already notified, skipping",
			zap.Int64("user_id", event.UserID))
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *NotificationWorker) alreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	processed, err := w.store.IsEventProcessed(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to check processed events: %w", err)
	}
	if processed {
		w.logger.Debug("Event already processed, skipping", zap.String("event_id", eventID))
	}
	return processed, nil
}
