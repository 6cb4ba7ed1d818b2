package models

import "time"

// User is an authenticated shop owner. The has_paid flag gates access to
// the paid dashboard surfaces.
type User struct {
	ID              int64      `db:"id" json:"id"`
	Username        string     `db:"username" json:"username"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	IsStaff         bool       `db:"is_staff" json:"is_staff"`
	HasPaid         bool       `db:"has_paid" json:"has_paid"`
	PaidAt          *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	PaymentNotified bool       `db:"payment_notified" json:"-"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Product represents a sellable product in the catalog
type Product struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Barcode   string    `db:"barcode" json:"barcode"`
	Size      string    `db:"size" json:"size"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InventoryItem is an owner-scoped stock record. Quantity and price are
// deliberately unconstrained at the storage level; the write path validates.
type InventoryItem struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Size      string    `db:"size" json:"size"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Client is a customer belonging to one owner
type Client struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayName returns the client's name for receipts
func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	return c.FirstName + " " + c.LastName
}

// CartItem is one pending purchase line in a user's cart, keyed by
// (user_id, product_id)
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with its product, as read inside the
// checkout transaction
type CartLine struct {
	CartItemID  int64  `db:"cart_item_id" json:"cart_item_id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	UnitPrice   int64  `db:"unit_price" json:"unit_price"`
	Quantity    int    `db:"quantity" json:"quantity"`
}

// Sale records a completed over-the-counter sale of an inventory item
type Sale struct {
	ID           int64     `db:"id" json:"id"`
	OwnerID      int64     `db:"owner_id" json:"owner_id"`
	ItemID       int64     `db:"item_id" json:"item_id"`
	ClientID     *int64    `db:"client_id" json:"client_id,omitempty"`
	QuantitySold int       `db:"quantity_sold" json:"quantity_sold"`
	TotalPrice   int64     `db:"total_price" json:"total_price"`
	SoldAt       time.Time `db:"sold_at" json:"sold_at"`
}

// Receipt is the immutable record of a completed checkout
type Receipt struct {
	ID            int64     `db:"id" json:"id"`
	ReceiptNumber string    `db:"receipt_number" json:"receipt_number"`
	UserID        int64     `db:"user_id" json:"user_id"`
	ClientID      *int64    `db:"client_id" json:"client_id,omitempty"`
	TotalAmount   int64     `db:"total_amount" json:"total_amount"`
	Notified      bool      `db:"notified" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReceiptItem is a line-item snapshot taken at checkout time. Name and
// unit price are copied so later product edits do not rewrite history.
type ReceiptItem struct {
	ID        int64  `db:"id" json:"id"`
	ReceiptID int64  `db:"receipt_id" json:"receipt_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	Quantity  int    `db:"quantity" json:"quantity"`
	LineTotal int64  `db:"line_total" json:"line_total"`
}

// ProcessedEvent for consumer-side idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
