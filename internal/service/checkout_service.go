package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart is returned when checking out with no cart rows
	ErrEmptyCart = store.ErrEmptyCart

	// ErrCheckoutInProgress is returned when another checkout holds the
	// user's lock
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CheckoutStore is the storage surface the checkout service needs
type CheckoutStore interface {
	Checkout(ctx context.Context, userID int64, clientID *int64, receiptNumber string) (*models.Receipt, []models.ReceiptItem, error)
	GetReceiptByNumber(ctx context.Context, number string) (*models.Receipt, error)
	GetReceiptByID(ctx context.Context, id int64) (*models.Receipt, error)
	GetReceiptItems(ctx context.Context, receiptID int64) ([]models.ReceiptItem, error)
	GetReceiptsByUser(ctx context.Context, userID int64) ([]models.Receipt, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
}

// CheckoutGuard coordinates concurrent checkouts from the same cart
type CheckoutGuard interface {
	AcquireCheckoutLock(ctx context.Context, userID int64, token string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID int64, token string) error
	SetIdempotencyKey(ctx context.Context, key string, receiptID int64, ttl time.Duration) error
	GetIdempotencyKey(ctx context.Context, key string) (int64, error)
}

// ReceiptEventPublisher publishes receipt lifecycle events
type ReceiptEventPublisher interface {
	PublishReceiptCreated(ctx context.Context, event *models.ReceiptCreatedEvent) error
}

// CheckoutService runs the cart-to-receipt workflow
type CheckoutService struct {
	store   CheckoutStore
	guard   CheckoutGuard
	events  ReceiptEventPublisher
	lockTTL time.Duration
	idemTTL time.Duration
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(st CheckoutStore, guard CheckoutGuard, events ReceiptEventPublisher, lockTTL, idemTTL time.Duration) *CheckoutService {
	return &CheckoutService{
		store:   st,
		guard:   guard,
		events:  events,
		lockTTL: lockTTL,
		idemTTL: idemTTL,
		logger:  util.GetLogger(),
	}
}

// CheckoutRequest carries the checkout inputs
type CheckoutRequest struct {
	ClientID       *int64 `json:"client_id,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// CheckoutLineItem is one line of the receipt payload
type CheckoutLineItem struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
}

// CheckoutResponse is the receipt payload returned to the client
type CheckoutResponse struct {
	ID            int64              `json:"id"`
	ReceiptNumber string             `json:"receipt_number"`
	CustomerName  string             `json:"customer_name"`
	Date          time.Time          `json:"date"`
	Items         []CheckoutLineItem `json:"items"`
	Total         int64              `json:"total"`
}

// Checkout converts the user's cart into a receipt. The store transaction
// makes the receipt + snapshot + cart drain all-or-nothing; the redis lock
// serializes concurrent checkouts from the same cart; the receipt number
// doubles as the idempotency anchor so a replayed request returns the
// original receipt instead of creating a second one.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}
	// the anchor is scoped to the user: a key replayed by a different user
	// must never resolve to the original user's receipt
	idemKey := fmt.Sprintf("%d:%s", userID, key)
	receiptNumber := fmt.Sprintf("RCP-%d-%s", userID, key)

	token := uuid.New().String()
	locked, err := s.guard.AcquireCheckoutLock(ctx, userID, token, s.lockTTL)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("lock_error").Inc()
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !locked {
		util.CheckoutsFailedTotal.WithLabelValues("lock_busy").Inc()
		return nil, ErrCheckoutInProgress
	}
	defer func() {
		if err := s.guard.ReleaseCheckoutLock(context.Background(), userID, token); err != nil {
			s.logger.Error("Failed to release checkout lock",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}()

	if existing, err := s.findExistingReceipt(ctx, userID, idemKey, receiptNumber); err != nil {
		return nil, err
	} else if existing != nil {
		s.logger.Info("Duplicate checkout request detected",
			zap.String("idempotency_key", key),
			zap.Int64("receipt_id", existing.ID))
		return s.buildResponse(ctx, existing)
	}

	receipt, items, err := s.store.Checkout(ctx, userID, req.ClientID, receiptNumber)
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
			return nil, ErrEmptyCart
		}
		util.CheckoutsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	util.CheckoutsTotal.Inc()
	util.ReceiptsCreatedTotal.Inc()
	s.logger.Info("Checkout completed",
		zap.Int64("receipt_id", receipt.ID),
		zap.Int64("user_id", userID),
		zap.Int64("total", receipt.TotalAmount))

	if err := s.guard.SetIdempotencyKey(ctx, idemKey, receipt.ID, s.idemTTL); err != nil {
		s.logger.Warn("Failed to record idempotency key", zap.Error(err))
	}

	s.publishReceiptCreated(ctx, receipt, items)

	return s.assembleResponse(ctx, receipt, items)
}

// findExistingReceipt checks the fast redis path, then the durable
// receipt-number path, for a previous run of this checkout. A receipt
// belonging to a different user is treated as not found.
func (s *CheckoutService) findExistingReceipt(ctx context.Context, userID int64, idemKey, receiptNumber string) (*models.Receipt, error) {
	receiptID, err := s.guard.GetIdempotencyKey(ctx, idemKey)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
	} else if receiptID > 0 {
		receipt, err := s.store.GetReceiptByID(ctx, receiptID)
		if err == nil && receipt.UserID == userID {
			return receipt, nil
		}
		// a stale or mismatched entry falls through to the durable path
	}

	receipt, err := s.store.GetReceiptByNumber(ctx, receiptNumber)
	if err != nil || receipt == nil {
		return nil, err
	}
	if receipt.UserID != userID {
		return nil, nil
	}
	return receipt, nil
}

func (s *CheckoutService) publishReceiptCreated(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem) {
	eventItems := make([]models.ReceiptItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.ReceiptItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	event := &models.ReceiptCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeReceiptCreated,
			Timestamp: time.Now(),
		},
		ReceiptID:     receipt.ID,
		ReceiptNumber: receipt.ReceiptNumber,
		UserID:        receipt.UserID,
		TotalAmount:   receipt.TotalAmount,
		Items:         eventItems,
	}

	if err := s.events.PublishReceiptCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReceiptCreated event", zap.Error(err))
	}
}

// buildResponse loads a receipt's items and assembles the payload, for
// idempotent replays
func (s *CheckoutService) buildResponse(ctx context.Context, receipt *models.Receipt) (*CheckoutResponse, error) {
	items, err := s.store.GetReceiptItems(ctx, receipt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt items: %w", err)
	}
	return s.assembleResponse(ctx, receipt, items)
}

func (s *CheckoutService) assembleResponse(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem) (*CheckoutResponse, error) {
	lineItems := make([]CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, CheckoutLineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			TotalPrice: item.LineTotal,
		})
	}

	return &CheckoutResponse{
		ID:            receipt.ID,
		ReceiptNumber: receipt.ReceiptNumber,
		CustomerName:  s.customerName(ctx, receipt),
		Date:          receipt.CreatedAt,
		Items:         lineItems,
		Total:         receipt.TotalAmount,
	}, nil
}

// customerName resolves the display name: the client on the receipt if one
// was given, the owning user's username otherwise
func (s *CheckoutService) customerName(ctx context.Context, receipt *models.Receipt) string {
	if receipt.ClientID != nil {
		client, err := s.store.GetClientByID(ctx, *receipt.ClientID)
		if err == nil {
			return client.DisplayName()
		}
		s.logger.Warn("Failed to resolve receipt client",
			zap.Int64("client_id", *receipt.ClientID),
			zap.Error(err))
	}

	user, err := s.store.GetUserByID(ctx, receipt.UserID)
	if err != nil {
		return ""
	}
	return user.Username
}

// GetReceipt retrieves a receipt and its line items for the owning user
func (s *CheckoutService) GetReceipt(ctx context.Context, userID, receiptID int64) (*CheckoutResponse, error) {
	receipt, err := s.store.GetReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.UserID != userID {
		return nil, store.ErrNotFound
	}
	return s.buildResponse(ctx, receipt)
}

// ListReceipts lists the user's receipts
func (s *CheckoutService) ListReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	receipts, err := s.store.GetReceiptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	return receipts, nil
}

var _ CheckoutStore = (*store.Store)(nil)
