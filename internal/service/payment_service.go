package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore is the storage surface the payment service needs
type PaymentStore interface {
	MarkUserPaid(ctx context.Context, userID int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PaymentEventPublisher publishes payment lifecycle events
type PaymentEventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, event *models.PaymentConfirmedEvent) error
}

// PaymentService handles the has_paid subscription transition. The actual
// payment happens at an external provider; this service only records the
// confirmed outcome.
type PaymentService struct {
	store  PaymentStore
	events PaymentEventPublisher
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(st PaymentStore, events PaymentEventPublisher) *PaymentService {
	return &PaymentService{
		store:  st,
		events: events,
		logger: util.GetLogger(),
	}
}

// ConfirmPayment flips has_paid for the user and publishes the
// confirmation event. Idempotent: confirming an already-paid user is a
// no-op update.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID int64) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.ConfirmPayment")
	defer span.End()

	if err := s.store.MarkUserPaid(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to mark user paid: %w", err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	util.PaymentsConfirmedTotal.Inc()
	s.logger.Info("Payment confirmed",
		zap.Int64("user_id", userID),
		zap.String("username", user.Username))

	paidAt := time.Now()
	if user.PaidAt != nil {
		paidAt = *user.PaidAt
	}

	event := &models.PaymentConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentConfirmed,
			Timestamp: time.Now(),
		},
		UserID:   user.ID,
		Username: user.Username,
		PaidAt:   paidAt,
	}

	if err := s.events.PublishPaymentConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentConfirmed event", zap.Error(err))
	}

	return user, nil
}

var _ PaymentStore = (*store.Store)(nil)
