package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// UpsertCartItem adds a product to the user's cart, or bumps the quantity
// if the product is already there
func (s *Store) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`

	return s.db.GetContext(ctx, item, query,
		item.UserID, item.ProductID, item.Quantity)
}

// GetCartItems retrieves a user's cart rows
func (s *Store) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE user_id = $1 ORDER BY id", userID)
	return items, err
}

// GetCartLines retrieves a user's cart joined with product name and price
func (s *Store) GetCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT ci.id AS cart_item_id, ci.product_id, p.name AS product_name,
		       p.price AS unit_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID)
	return lines, err
}

// DeleteCartItem removes one cart row belonging to the user
func (s *Store) DeleteCartItem(ctx context.Context, userID, cartItemID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = $1 AND user_id = $2", cartItemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// getCartLinesTx reads the cart inside a transaction with the rows locked
// so concurrent checkouts of the same cart serialize
func getCartLinesTx(ctx context.Context, tx querier, userID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := tx.SelectContext(ctx, &lines, `
		SELECT ci.id AS cart_item_id, ci.product_id, p.name AS product_name,
		       p.price AS unit_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id
		FOR UPDATE OF ci`, userID)
	return lines, err
}

// querier is the subset of sqlx.Tx the cart queries need
type querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
