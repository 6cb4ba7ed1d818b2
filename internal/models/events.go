package models

import "time"

// Event types
const (
	EventTypeReceiptCreated   = "RECEIPT_CREATED"
	EventTypePaymentConfirmed = "PAYMENT_CONFIRMED"
	EventTypeSaleRecorded     = "SALE_RECORDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ReceiptCreatedEvent published after a checkout commits
type ReceiptCreatedEvent struct {
	BaseEvent
	ReceiptID     int64             `json:"receipt_id"`
	ReceiptNumber string            `json:"receipt_number"`
	UserID        int64             `json:"user_id"`
	TotalAmount   int64             `json:"total_amount"`
	Items         []ReceiptItemData `json:"items"`
}

// PaymentConfirmedEvent published when a user's has_paid flag flips
type PaymentConfirmedEvent struct {
	BaseEvent
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	PaidAt   time.Time `json:"paid_at"`
}

// SaleRecordedEvent published when an over-the-counter sale is recorded
type SaleRecordedEvent struct {
	BaseEvent
	SaleID       int64 `json:"sale_id"`
	OwnerID      int64 `json:"owner_id"`
	ItemID       int64 `json:"item_id"`
	QuantitySold int   `json:"quantity_sold"`
	TotalPrice   int64 `json:"total_price"`
}

// ReceiptItemData represents line-item data in events
type ReceiptItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}
