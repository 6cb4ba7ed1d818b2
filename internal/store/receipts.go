package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"
)

// buildReceiptItems turns cart lines into line-item snapshots and the
// grand total. Line total = unit price x quantity at checkout time.
func buildReceiptItems(lines []models.CartLine) ([]models.ReceiptItem, int64) {
	items := make([]models.ReceiptItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		lineTotal := line.UnitPrice * int64(line.Quantity)
		items = append(items, models.ReceiptItem{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}
	return items, total
}

// Checkout converts the user's cart into a receipt atomically: cart rows
// are read under lock, the receipt and its line-item snapshots are
// inserted, and the cart rows are deleted, all in one transaction. A
// failure at any step rolls back everything; there is no partial receipt.
//
// Returns ErrEmptyCart if the user has no cart rows.
func (s *Store) Checkout(ctx context.Context, userID int64, clientID *int64, receiptNumber string) (*models.Receipt, []models.ReceiptItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin checkout: %w", err)
	}
	defer tx.Rollback()

	lines, err := getCartLinesTx(ctx, tx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	snapshots, total := buildReceiptItems(lines)

	receipt := &models.Receipt{
		ReceiptNumber: receiptNumber,
		UserID:        userID,
		ClientID:      clientID,
		TotalAmount:   total,
	}
	err = tx.GetContext(ctx, receipt, `
		INSERT INTO receipts (receipt_number, user_id, client_id, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, notified, created_at`,
		receipt.ReceiptNumber, receipt.UserID, receipt.ClientID, receipt.TotalAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	items := make([]models.ReceiptItem, 0, len(snapshots))
	for _, item := range snapshots {
		item.ReceiptID = receipt.ID
		err = tx.GetContext(ctx, &item.ID, `
			INSERT INTO receipt_items (receipt_id, product_id, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			item.ReceiptID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create receipt item: %w", err)
		}
		items = append(items, item)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
		return nil, nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return receipt, items, nil
}

// GetReceiptByID retrieves a receipt by ID
func (s *Store) GetReceiptByID(ctx context.Context, id int64) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.db.GetContext(ctx, &receipt, "SELECT * FROM receipts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetReceiptByNumber retrieves a receipt by its receipt number. Returns
// (nil, nil) when no receipt carries the number, for idempotency checks.
func (s *Store) GetReceiptByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.db.GetContext(ctx, &receipt, "SELECT * FROM receipts WHERE receipt_number = $1", number)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetReceiptsByUser retrieves a user's receipts, newest first
func (s *Store) GetReceiptsByUser(ctx context.Context, userID int64) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := s.db.SelectContext(ctx, &receipts,
		"SELECT * FROM receipts WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return receipts, err
}

// GetReceiptItems retrieves all line items for a receipt
func (s *Store) GetReceiptItems(ctx context.Context, receiptID int64) ([]models.ReceiptItem, error) {
	var items []models.ReceiptItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM receipt_items WHERE receipt_id = $1 ORDER BY id", receiptID)
	return items, err
}

// CountReceiptsByUser returns how many receipts a user holds
func (s *Store) CountReceiptsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM receipts WHERE user_id = $1", userID)
	return count, err
}

// MarkReceiptNotified flips the one-shot receipt notification latch.
// Returns true if this call won the latch.
func (s *Store) MarkReceiptNotified(ctx context.Context, receiptID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE receipts SET notified = TRUE WHERE id = $1 AND notified = FALSE", receiptID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
